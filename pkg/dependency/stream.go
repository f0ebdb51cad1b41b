package dependency

import (
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// WriteAll encodes deps as a record stream, each record tagged with the
// kind's registry identifier.
func WriteAll(reg *serialization.Registry, deps []Dependency) ([]byte, error) {
	objs := make([]serialization.Serializable, len(deps))
	for i, d := range deps {
		objs[i] = d
	}
	return serialization.EncodeAll(reg, objs)
}

// ReadAll decodes a record stream written by WriteAll. A record whose kind
// does not implement Dependency is an INVALID_RECORD error.
func ReadAll(reg *serialization.Registry, data []byte) ([]Dependency, error) {
	objs, err := serialization.DecodeAll(reg, data)
	if err != nil {
		return nil, err
	}
	deps := make([]Dependency, 0, len(objs))
	for i, obj := range objs {
		d, ok := obj.(Dependency)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "record %d (%T) is not a dependency", i, obj)
		}
		deps = append(deps, d)
	}
	return deps, nil
}
