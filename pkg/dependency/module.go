package dependency

import "github.com/matzehuels/bundledeps/pkg/serialization"

// ModuleDependency holds the fields shared by every edge kind that points at
// another module through a request string. Concrete kinds embed it, provide
// Type and Category, and override the queries they specialise.
//
// The base serializes, in order: request, userRequest, range, weak,
// optional, loc. Kinds write their own fields first and then call
// ModuleDependency.Serialize.
type ModuleDependency struct {
	request     string
	userRequest string
	rng         *Range
	weak        bool
	optional    bool
	loc         Location
}

// Option configures a ModuleDependency at construction.
type Option func(*ModuleDependency)

// WithUserRequest sets the request as the user wrote it, when it differs
// from the normalized request.
func WithUserRequest(s string) Option {
	return func(d *ModuleDependency) { d.userRequest = s }
}

// WithRange sets the source range of the reference.
func WithRange(start, end int) Option {
	return func(d *ModuleDependency) { d.rng = &Range{Start: start, End: end} }
}

// WithLoc sets the origin locator.
func WithLoc(loc Location) Option {
	return func(d *ModuleDependency) { d.loc = loc }
}

// Weak marks the reference as not forcing the target into the build.
func Weak() Option {
	return func(d *ModuleDependency) { d.weak = true }
}

// Optional marks the reference as allowed to stay unresolved.
func Optional() Option {
	return func(d *ModuleDependency) { d.optional = true }
}

// NewModuleDependency creates the shared base for request.
func NewModuleDependency(request string, opts ...Option) ModuleDependency {
	d := ModuleDependency{request: request, userRequest: request}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d *ModuleDependency) Request() string     { return d.request }
func (d *ModuleDependency) UserRequest() string { return d.userRequest }
func (d *ModuleDependency) Weak() bool          { return d.weak }
func (d *ModuleDependency) Optional() bool      { return d.optional }
func (d *ModuleDependency) Loc() Location       { return d.loc }

// Range returns a copy of the source range, or nil if none was recorded.
func (d *ModuleDependency) Range() *Range {
	if d.rng == nil {
		return nil
	}
	r := *d.rng
	return &r
}

// ReferencedExports defaults to the whole exports object.
func (d *ModuleDependency) ReferencedExports(ModuleGraph, RuntimeSpec) []ExportPath {
	return ExportsObjectReferenced()
}

// Errors defaults to no diagnostics.
func (d *ModuleDependency) Errors(ModuleGraph) []*Diagnostic { return nil }

// Serialize writes the shared fields.
func (d *ModuleDependency) Serialize(w *serialization.ObjectWriter) error {
	w.Write(d.request)
	w.Write(d.userRequest)
	w.Write(d.rng)
	w.Write(d.weak)
	w.Write(d.optional)
	w.Write(d.loc)
	return nil
}

// Deserialize reads the shared fields in the order Serialize wrote them.
func (d *ModuleDependency) Deserialize(r *serialization.ObjectReader) error {
	var err error
	if d.request, err = r.ReadString(); err != nil {
		return err
	}
	if d.userRequest, err = r.ReadString(); err != nil {
		return err
	}
	if err = r.Read(&d.rng); err != nil {
		return err
	}
	if d.weak, err = r.ReadBool(); err != nil {
		return err
	}
	if d.optional, err = r.ReadBool(); err != nil {
		return err
	}
	return r.Read(&d.loc)
}
