package serialization

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/matzehuels/bundledeps/pkg/errors"
)

// ObjectWriter collects the ordered field values of one record.
type ObjectWriter struct {
	values bson.A
}

// NewObjectWriter creates an empty writer.
func NewObjectWriter() *ObjectWriter {
	return &ObjectWriter{}
}

// Write appends v as the next field. v must be encodable as a BSON value;
// structs are encoded through their bson tags, nil pointers as null.
func (w *ObjectWriter) Write(v any) {
	w.values = append(w.values, v)
}

// Len returns the number of fields written so far.
func (w *ObjectWriter) Len() int { return len(w.values) }

// ObjectReader yields the field values of one record in write order.
type ObjectReader struct {
	values []bson.RawValue
	pos    int
}

func newObjectReader(values []bson.RawValue) *ObjectReader {
	return &ObjectReader{values: values}
}

// Read decodes the next field into dst, which must be a non-nil pointer.
// It fails with INVALID_RECORD when the record has no fields left or the
// stored value cannot be decoded into dst.
func (r *ObjectReader) Read(dst any) error {
	rv, err := r.ReadRaw()
	if err != nil {
		return err
	}
	if err := rv.Unmarshal(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecord, err, "decode field %d", r.pos-1)
	}
	return nil
}

// ReadString reads the next field, which must be a BSON string.
func (r *ObjectReader) ReadString() (string, error) {
	rv, err := r.ReadRaw()
	if err != nil {
		return "", err
	}
	s, ok := rv.StringValueOK()
	if !ok {
		return "", r.mismatch(rv, bsontype.String)
	}
	return s, nil
}

// ReadBool reads the next field, which must be a BSON boolean.
func (r *ObjectReader) ReadBool() (bool, error) {
	rv, err := r.ReadRaw()
	if err != nil {
		return false, err
	}
	b, ok := rv.BooleanOK()
	if !ok {
		return false, r.mismatch(rv, bsontype.Boolean)
	}
	return b, nil
}

// ReadRaw returns the next field undecoded. Kinds whose fields admit more
// than one BSON type inspect the returned value's Type.
func (r *ObjectReader) ReadRaw() (bson.RawValue, error) {
	if r.pos >= len(r.values) {
		return bson.RawValue{}, errors.New(errors.ErrCodeInvalidRecord,
			"record ended after %d fields", len(r.values))
	}
	rv := r.values[r.pos]
	r.pos++
	return rv, nil
}

// Remaining returns the number of unread fields.
func (r *ObjectReader) Remaining() int { return len(r.values) - r.pos }

func (r *ObjectReader) mismatch(rv bson.RawValue, want bsontype.Type) error {
	return errors.New(errors.ErrCodeInvalidRecord,
		"field %d: got %s, want %s", r.pos-1, rv.Type, want)
}
