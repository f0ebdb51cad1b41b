// Package dependency defines the edge contract of the module graph.
//
// Every cross-module reference (import, re-export, foreign-format import) is
// a [Dependency]. Concrete kinds live in their own packages (see package wasm)
// and plug in through the serialization registry; the graph core only ever
// sees this interface.
//
// A Dependency answers three questions:
//
//   - ReferencedExports: which exports of the resolved target it consumes.
//   - Errors: whether the reference is legal given the target's module type.
//   - Serialize/Deserialize: how to persist it in a build cache.
//
// Dependencies never hold a pointer to their target module. The target is
// looked up on demand through a [ModuleGraph], keyed by the dependency itself.
package dependency

import (
	"strings"

	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// Dependency is the contract implemented by every edge kind.
//
// Implementations are immutable once constructed (only Deserialize fills in
// fields) and all methods are safe for concurrent use.
type Dependency interface {
	serialization.Serializable

	// Type returns the kind's type tag, e.g. "wasm import".
	Type() string
	// Category returns the kind's coarse grouping, e.g. "wasm".
	Category() string
	// Request returns the raw reference string used to locate the target.
	Request() string
	// Loc returns the human-facing origin of the reference.
	Loc() Location

	// ReferencedExports lists the exports of the target this edge consumes.
	// It must return the same result for the same graph and runtime.
	ReferencedExports(g ModuleGraph, runtime RuntimeSpec) []ExportPath
	// Errors validates the edge against the live graph. A nil or empty
	// result means the edge is legal as currently resolved, including when
	// the target is not resolved at all.
	Errors(g ModuleGraph) []*Diagnostic
}

// ExportPath names one export of a module, possibly nested
// (["default", "add"]). The empty path stands for the whole exports object.
type ExportPath []string

// IsWildcard reports whether p references the entire exports object.
func (p ExportPath) IsWildcard() bool { return len(p) == 0 }

// String renders p as a dotted path, or "*" for the wildcard.
func (p ExportPath) String() string {
	if p.IsWildcard() {
		return "*"
	}
	return strings.Join(p, ".")
}

// ExportsObjectReferenced is the referenced-exports result of an edge that
// consumes the whole exports object.
func ExportsObjectReferenced() []ExportPath { return []ExportPath{{}} }

// NoExportsReferenced is the result of an edge that consumes no exports.
func NoExportsReferenced() []ExportPath { return nil }

// RuntimeSpec names the runtimes a module is analysed for.
// A nil spec means the analysis is not runtime-specific.
type RuntimeSpec []string

// String returns a stable key for the runtime set.
func (r RuntimeSpec) String() string {
	if len(r) == 0 {
		return "*"
	}
	return strings.Join(r, "|")
}
