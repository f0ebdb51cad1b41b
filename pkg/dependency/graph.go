package dependency

// Module is the view of a resolved target that edges are allowed to inspect.
type Module interface {
	// Identifier returns the module's unique ID within the graph.
	Identifier() string
	// Type returns the module's kind tag, e.g. "javascript/auto" or
	// "webassembly/async".
	Type() string
}

// ModuleGraph resolves an edge to its target module.
//
// GetModule is a pure read: it never mutates the graph and returns false
// when the edge is not (yet) resolved.
type ModuleGraph interface {
	GetModule(dep Dependency) (Module, bool)
}
