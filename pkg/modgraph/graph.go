package modgraph

import (
	"errors"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/bundledeps/pkg/dependency"
)

var (
	// ErrInvalidModuleID is returned by [Graph.AddModule] when the module ID
	// is empty.
	ErrInvalidModuleID = errors.New("module ID must not be empty")

	// ErrDuplicateModule is returned by [Graph.AddModule] when a module with
	// the same ID already exists.
	ErrDuplicateModule = errors.New("duplicate module ID")

	// ErrUnknownModule is returned when an operation names a module that is
	// not in the graph.
	ErrUnknownModule = errors.New("unknown module")

	// ErrNilDependency is returned by [Graph.AddDependency] and
	// [Graph.SetResolvedModule] for a nil dependency.
	ErrNilDependency = errors.New("dependency must not be nil")
)

// Edge is a resolved dependency between two modules.
type Edge struct {
	From string
	To   string
	Dep  dependency.Dependency
}

// Graph is the module graph of one build. The zero value is not usable;
// use New.
type Graph struct {
	mu       sync.RWMutex
	modules  map[string]*Module
	origin   map[dependency.Dependency]*Module
	resolved map[dependency.Dependency]*Module
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		modules:  make(map[string]*Module),
		origin:   make(map[dependency.Dependency]*Module),
		resolved: make(map[dependency.Dependency]*Module),
	}
}

// AddModule adds m to the graph.
func (g *Graph) AddModule(m *Module) error {
	if m == nil || m.id == "" {
		return ErrInvalidModuleID
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.modules[m.id]; ok {
		return ErrDuplicateModule
	}
	g.modules[m.id] = m
	for _, d := range m.deps {
		g.origin[d] = m
	}
	return nil
}

// AddDependency appends dep to the dependencies of the module from.
func (g *Graph) AddDependency(from string, dep dependency.Dependency) error {
	if dep == nil {
		return ErrNilDependency
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.modules[from]
	if !ok {
		return ErrUnknownModule
	}
	m.deps = append(m.deps, dep)
	g.origin[dep] = m
	return nil
}

// SetResolvedModule records that dep resolved to the module id.
func (g *Graph) SetResolvedModule(dep dependency.Dependency, id string) error {
	if dep == nil {
		return ErrNilDependency
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.modules[id]
	if !ok {
		return ErrUnknownModule
	}
	g.resolved[dep] = m
	return nil
}

// Resolve matches every unresolved dependency against the module IDs and
// returns the dependencies that matched nothing, in module then insertion
// order.
func (g *Graph) Resolve() []dependency.Dependency {
	g.mu.Lock()
	defer g.mu.Unlock()

	var unresolved []dependency.Dependency
	for _, id := range g.sortedIDs() {
		from := g.modules[id]
		for _, d := range from.deps {
			if _, ok := g.resolved[d]; ok {
				continue
			}
			if to := g.match(from.id, d.Request()); to != nil {
				g.resolved[d] = to
				continue
			}
			unresolved = append(unresolved, d)
		}
	}
	return unresolved
}

func (g *Graph) match(origin, request string) *Module {
	if m, ok := g.modules[request]; ok {
		return m
	}
	if !strings.HasPrefix(request, "./") && !strings.HasPrefix(request, "../") {
		return nil
	}
	joined := path.Join(path.Dir(origin), request)
	if m, ok := g.modules[joined]; ok {
		return m
	}
	if m, ok := g.modules["./"+joined]; ok {
		return m
	}
	return nil
}

// GetModule returns the module dep resolved to.
func (g *Graph) GetModule(dep dependency.Dependency) (dependency.Module, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.resolved[dep]
	if !ok {
		return nil, false
	}
	return m, true
}

// Origin returns the module that contains dep.
func (g *Graph) Origin(dep dependency.Dependency) (*Module, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.origin[dep]
	return m, ok
}

// Module returns the module with the given ID.
func (g *Graph) Module(id string) (*Module, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.modules[id]
	return m, ok
}

// Modules returns all modules sorted by ID.
func (g *Graph) Modules() []*Module {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.sortedIDs()
	out := make([]*Module, len(ids))
	for i, id := range ids {
		out[i] = g.modules[id]
	}
	return out
}

// ModuleCount returns the number of modules.
func (g *Graph) ModuleCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.modules)
}

// Edges returns the resolved dependencies, ordered by origin module ID and
// then insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for _, id := range g.sortedIDs() {
		for _, d := range g.modules[id].deps {
			if to, ok := g.resolved[d]; ok {
				out = append(out, Edge{From: id, To: to.id, Dep: d})
			}
		}
	}
	return out
}

// Incoming returns the dependencies resolved to the module id, in the same
// order as [Graph.Edges].
func (g *Graph) Incoming(id string) []dependency.Dependency {
	var out []dependency.Dependency
	for _, e := range g.Edges() {
		if e.To == id {
			out = append(out, e.Dep)
		}
	}
	return out
}

func (g *Graph) sortedIDs() []string {
	return slices.Sorted(maps.Keys(g.modules))
}

var _ dependency.ModuleGraph = (*Graph)(nil)
