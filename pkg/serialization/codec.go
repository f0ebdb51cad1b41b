package serialization

import (
	"bytes"
	"encoding/binary"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/bundledeps/pkg/errors"
)

// recordField is the document key holding a record's field array.
const recordField = "r"

// minRecordSize is the size of an empty BSON document: a four byte length
// and the terminating null.
const minRecordSize = 5

type record struct {
	Fields []bson.RawValue `bson:"r"`
}

// Encode serializes obj as a single record tagged with its registry identifier.
func Encode(reg *Registry, obj Serializable) ([]byte, error) {
	id, err := reg.IdentifierOf(obj)
	if err != nil {
		return nil, err
	}
	w := NewObjectWriter()
	w.Write(id)
	if err := obj.Serialize(w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "serialize %q", id)
	}
	data, err := bson.Marshal(bson.D{{Key: recordField, Value: w.values}})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "marshal %q", id)
	}
	return data, nil
}

// Decode rebuilds an object from a single record. The record's identifier is
// dispatched through reg; an unregistered identifier is an UNKNOWN_KIND error.
// Records with missing or extra fields are INVALID_RECORD errors.
func Decode(reg *Registry, data []byte) (Serializable, error) {
	var rec record
	if err := bson.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "unmarshal record")
	}
	if len(rec.Fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "record has no identifier")
	}
	id, ok := rec.Fields[0].StringValueOK()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "record identifier is %s, want string", rec.Fields[0].Type)
	}

	factory, err := reg.Lookup(id)
	if err != nil {
		return nil, err
	}
	obj := factory()
	r := newObjectReader(rec.Fields[1:])
	if err := obj.Deserialize(r); err != nil {
		if errors.IsFatalRecord(err) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "deserialize %q", id)
	}
	if n := r.Remaining(); n > 0 {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "record %q has %d unread fields", id, n)
	}
	return obj, nil
}

// EncodeAll serializes objs as a stream of records, in order.
func EncodeAll(reg *Registry, objs []Serializable) ([]byte, error) {
	var buf bytes.Buffer
	for _, obj := range objs {
		data, err := Encode(reg, obj)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// DecodeAll reads every record from a stream produced by EncodeAll.
// It stops at the first failing record; no partial result is returned.
func DecodeAll(reg *Registry, data []byte) ([]Serializable, error) {
	var objs []Serializable
	for off := 0; off < len(data); {
		rest := data[off:]
		if len(rest) < minRecordSize {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "record %d: truncated stream (%d bytes left)", len(objs), len(rest))
		}
		n := int(binary.LittleEndian.Uint32(rest))
		if n < minRecordSize || n > len(rest) {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "record %d: length %d out of range (%d bytes left)", len(objs), n, len(rest))
		}
		obj, err := Decode(reg, rest[:n])
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
		off += n
	}
	return objs, nil
}
