package serialization

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/bundledeps/pkg/errors"
)

// Serializable is implemented by every kind that can be persisted as a record.
//
// Serialize writes the kind's fields in a fixed order. Deserialize reads them
// back in exactly the same order and must fail rather than fill in defaults
// when a field is missing.
type Serializable interface {
	Serialize(w *ObjectWriter) error
	Deserialize(r *ObjectReader) error
}

// Factory returns a new zero instance of a kind, ready for Deserialize.
type Factory func() Serializable

// Kind binds a stable identifier to a factory.
type Kind struct {
	ID  string
	New Factory
}

type entry struct {
	typ     reflect.Type
	factory Factory
}

// Registry maps stable identifiers to the kinds they reconstruct.
//
// A Registry is populated during initialization and then sealed. Register
// takes a lock; once Seal has been called, Lookup and IdentifierOf read the
// tables without locking.
type Registry struct {
	mu     sync.Mutex
	sealed atomic.Bool
	byID   map[string]entry
	byType map[reflect.Type]string
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]entry),
		byType: make(map[reflect.Type]string),
	}
}

// Register binds id to the kind produced by f.
//
// Registering the same id with the same Go type again is a no-op. Binding an
// id to a different type, or a type to a second id, is a DUPLICATE_KIND
// configuration error. Register fails with REGISTRY_SEALED once the registry
// has been sealed.
func (r *Registry) Register(id string, f Factory) error {
	if err := errors.ValidateIdentifier(id); err != nil {
		return err
	}
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "kind %q has no factory", id)
	}
	proto := f()
	if proto == nil {
		return errors.New(errors.ErrCodeInvalidInput, "factory for kind %q returned nil", id)
	}
	typ := reflect.TypeOf(proto)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return errors.New(errors.ErrCodeRegistrySealed, "cannot register %q: registry is sealed", id)
	}
	if existing, ok := r.byID[id]; ok {
		if existing.typ == typ {
			return nil
		}
		return errors.New(errors.ErrCodeDuplicateKind,
			"identifier %q is already registered to %s, cannot register %s", id, existing.typ, typ)
	}
	if other, ok := r.byType[typ]; ok {
		return errors.New(errors.ErrCodeDuplicateKind,
			"%s is already registered as %q, cannot register it as %q", typ, other, id)
	}

	r.byID[id] = entry{typ: typ, factory: f}
	r.byType[typ] = id
	return nil
}

// RegisterAll registers each kind in order and stops at the first error.
func (r *Registry) RegisterAll(kinds ...Kind) error {
	for _, k := range kinds {
		if err := r.Register(k.ID, k.New); err != nil {
			return err
		}
	}
	return nil
}

// Seal makes the registry read-only. Sealing twice is harmless.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Lookup returns the factory registered under id.
// It fails with UNKNOWN_KIND when id has never been registered.
func (r *Registry) Lookup(id string) (Factory, error) {
	e, ok := r.get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown kind %q", id)
	}
	return e.factory, nil
}

// IdentifierOf returns the identifier registered for obj's concrete type.
// It fails with UNKNOWN_KIND when the type was never registered.
func (r *Registry) IdentifierOf(obj Serializable) (string, error) {
	if obj == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot identify a nil object")
	}
	typ := reflect.TypeOf(obj)
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	id, ok := r.byType[typ]
	if !ok {
		return "", errors.New(errors.ErrCodeUnknownKind, "no identifier registered for %s", typ)
	}
	return id, nil
}

// Identifiers returns all registered identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) get(id string) (entry, bool) {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	e, ok := r.byID[id]
	return e, ok
}
