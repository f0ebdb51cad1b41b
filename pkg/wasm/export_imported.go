package wasm

import (
	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// ExportImportedDependency is a wasm module re-exporting, under exportName,
// the binding name it imports from request.
type ExportImportedDependency struct {
	dependency.ModuleDependency

	exportName string
	name       string
	valueType  string
}

// NewExportImportedDependency creates a re-export of name from request.
// valueType is the wasm value type of the binding (e.g. "i32").
func NewExportImportedDependency(exportName, request, name, valueType string, opts ...dependency.Option) *ExportImportedDependency {
	return &ExportImportedDependency{
		ModuleDependency: dependency.NewModuleDependency(request, opts...),
		exportName:       exportName,
		name:             name,
		valueType:        valueType,
	}
}

func (d *ExportImportedDependency) Type() string     { return TypeExportImport }
func (d *ExportImportedDependency) Category() string { return Category }

func (d *ExportImportedDependency) ExportName() string { return d.exportName }
func (d *ExportImportedDependency) Name() string       { return d.name }
func (d *ExportImportedDependency) ValueType() string  { return d.valueType }

// ReferencedExports references the re-exported binding of the target.
func (d *ExportImportedDependency) ReferencedExports(dependency.ModuleGraph, dependency.RuntimeSpec) []dependency.ExportPath {
	return []dependency.ExportPath{{d.name}}
}

func (d *ExportImportedDependency) Serialize(w *serialization.ObjectWriter) error {
	w.Write(d.exportName)
	w.Write(d.name)
	w.Write(d.valueType)
	return d.ModuleDependency.Serialize(w)
}

func (d *ExportImportedDependency) Deserialize(r *serialization.ObjectReader) error {
	var err error
	if d.exportName, err = r.ReadString(); err != nil {
		return err
	}
	if d.name, err = r.ReadString(); err != nil {
		return err
	}
	if d.valueType, err = r.ReadString(); err != nil {
		return err
	}
	return d.ModuleDependency.Deserialize(r)
}
