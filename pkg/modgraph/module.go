package modgraph

import (
	"slices"
	"strings"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/wasm"
)

// Module type tags.
const (
	TypeJavaScriptAuto    = "javascript/auto"
	TypeJavaScriptDynamic = "javascript/dynamic"
	TypeJavaScriptESM     = "javascript/esm"
	TypeJSON              = "json"
	TypeWebAssemblySync   = wasm.ModuleTypePrefix + "/sync"
	TypeWebAssemblyAsync  = wasm.ModuleTypePrefix + "/async"
	TypeAsset             = "asset"
)

// KnownTypes lists every module type tag in display order.
var KnownTypes = []string{
	TypeJavaScriptAuto,
	TypeJavaScriptDynamic,
	TypeJavaScriptESM,
	TypeJSON,
	TypeWebAssemblySync,
	TypeWebAssemblyAsync,
	TypeAsset,
}

// IsKnownType reports whether t is one of [KnownTypes].
func IsKnownType(t string) bool {
	return slices.Contains(KnownTypes, t)
}

// IsWebAssembly reports whether t tags a wasm module. It applies the same
// prefix rule as wasm import validation.
func IsWebAssembly(t string) bool { return strings.HasPrefix(t, wasm.ModuleTypePrefix) }

// Module is a node of the graph. The zero value is not usable; use NewModule.
type Module struct {
	id   string
	typ  string
	deps []dependency.Dependency
}

// NewModule creates a module with no dependencies.
func NewModule(id, typ string) *Module {
	return &Module{id: id, typ: typ}
}

func (m *Module) Identifier() string { return m.id }
func (m *Module) Type() string       { return m.typ }

// Dependencies returns the module's outgoing edges in insertion order.
// The slice is a copy; the dependencies are shared.
func (m *Module) Dependencies() []dependency.Dependency {
	out := make([]dependency.Dependency, len(m.deps))
	copy(out, m.deps)
	return out
}

var _ dependency.Module = (*Module)(nil)
