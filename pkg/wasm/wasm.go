// Package wasm implements the dependency kinds created for WebAssembly modules.
//
// # Kinds
//
//   - ImportDependency: a wasm import of a single binding ("wasm import").
//   - ExportImportedDependency: a wasm export that re-exports an import
//     ("wasm export import").
//
// Both reference exactly one named export of their target. ImportDependency
// may additionally require its target to be a wasm module (a direct wasm to
// wasm link); Errors reports an UnsupportedWebAssemblyFeatureError otherwise.
//
// # Registration
//
// Kinds are registered explicitly at startup:
//
//	if err := serialization.Init(wasm.Kinds()...); err != nil {
//	    return err
//	}
package wasm

import (
	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// Type and category tags.
const (
	TypeImport       = "wasm import"
	TypeExportImport = "wasm export import"
	Category         = "wasm"
)

// ModuleTypePrefix prefixes the type tag of every wasm module
// ("webassembly/sync", "webassembly/async").
const ModuleTypePrefix = "webassembly"

// Registry identifiers. They are embedded in persisted records and must
// never change.
const (
	ImportDependencyID         = "bundledeps/dependencies/WebAssemblyImportDependency"
	ExportImportedDependencyID = "bundledeps/dependencies/WebAssemblyExportImportedDependency"
)

// UnsupportedFeatureErrorName is the Name of diagnostics produced by this package.
const UnsupportedFeatureErrorName = "UnsupportedWebAssemblyFeatureError"

// NewUnsupportedFeatureError creates a diagnostic for a wasm feature the
// target module cannot provide.
func NewUnsupportedFeatureError(message string, dep dependency.Dependency) *dependency.Diagnostic {
	return dependency.NewDiagnostic(UnsupportedFeatureErrorName, message, dep)
}

// Kinds returns the registrations for every kind in this package.
func Kinds() []serialization.Kind {
	return []serialization.Kind{
		{ID: ImportDependencyID, New: func() serialization.Serializable { return &ImportDependency{} }},
		{ID: ExportImportedDependencyID, New: func() serialization.Serializable { return &ExportImportedDependency{} }},
	}
}

var (
	_ dependency.Dependency = (*ImportDependency)(nil)
	_ dependency.Dependency = (*ExportImportedDependency)(nil)
)
