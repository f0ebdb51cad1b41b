package wasm

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// ImportDependency is a wasm module's import of a single binding from
// another module.
type ImportDependency struct {
	dependency.ModuleDependency

	name             string
	description      ModuleImportDescription
	onlyDirectImport string
}

// NewImportDependency creates an import of name from request.
//
// onlyDirectImport is empty when the import may be satisfied by any module.
// Otherwise it names the wasm feature that requires the target to be a wasm
// module itself ("i64 as parameter", "Memory", ...), and Errors reports
// targets that are not.
func NewImportDependency(request, name string, description ModuleImportDescription, onlyDirectImport string, opts ...dependency.Option) *ImportDependency {
	return &ImportDependency{
		ModuleDependency: dependency.NewModuleDependency(request, opts...),
		name:             name,
		description:      description,
		onlyDirectImport: onlyDirectImport,
	}
}

func (d *ImportDependency) Type() string     { return TypeImport }
func (d *ImportDependency) Category() string { return Category }

// Name returns the imported binding.
func (d *ImportDependency) Name() string { return d.name }

// Description returns the parser's import node.
func (d *ImportDependency) Description() ModuleImportDescription { return d.description }

// OnlyDirectImport returns the reason the import must be satisfied by a
// wasm module, or "" when there is no such constraint.
func (d *ImportDependency) OnlyDirectImport() string { return d.onlyDirectImport }

// ReferencedExports always references exactly the imported name. The
// runtime does not change what a wasm import consumes.
func (d *ImportDependency) ReferencedExports(dependency.ModuleGraph, dependency.RuntimeSpec) []dependency.ExportPath {
	return []dependency.ExportPath{{d.name}}
}

// Errors reports a direct-only import whose resolved target is not a wasm
// module. Unresolved targets and unconstrained imports are always legal.
func (d *ImportDependency) Errors(g dependency.ModuleGraph) []*dependency.Diagnostic {
	if g == nil || d.onlyDirectImport == "" {
		return nil
	}
	m, ok := g.GetModule(d)
	if !ok {
		return nil
	}
	if strings.HasPrefix(m.Type(), ModuleTypePrefix) {
		return nil
	}
	return []*dependency.Diagnostic{
		NewUnsupportedFeatureError(fmt.Sprintf(
			`Import "%s" from "%s" with %s can only be used for direct wasm to wasm dependencies`,
			d.name, d.Request(), d.onlyDirectImport), d),
	}
}

// Serialize writes name, description and onlyDirectImport, then the base
// fields. An unconstrained import is written as false.
func (d *ImportDependency) Serialize(w *serialization.ObjectWriter) error {
	w.Write(d.name)
	w.Write(d.description)
	if d.onlyDirectImport == "" {
		w.Write(false)
	} else {
		w.Write(d.onlyDirectImport)
	}
	return d.ModuleDependency.Serialize(w)
}

// Deserialize reads the fields in the order Serialize wrote them.
func (d *ImportDependency) Deserialize(r *serialization.ObjectReader) error {
	var err error
	if d.name, err = r.ReadString(); err != nil {
		return err
	}
	if err := r.Read(&d.description); err != nil {
		return err
	}
	if d.onlyDirectImport, err = readDirectOnly(r); err != nil {
		return err
	}
	return d.ModuleDependency.Deserialize(r)
}

// readDirectOnly reads a field that is either false or a reason string.
func readDirectOnly(r *serialization.ObjectReader) (string, error) {
	rv, err := r.ReadRaw()
	if err != nil {
		return "", err
	}
	switch rv.Type {
	case bsontype.Boolean:
		if rv.Boolean() {
			return "", errors.New(errors.ErrCodeInvalidRecord, "onlyDirectImport must be false or a string, got true")
		}
		return "", nil
	case bsontype.String:
		return rv.StringValue(), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidRecord, "onlyDirectImport must be false or a string, got %s", rv.Type)
	}
}
