package analysis

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
)

// ModuleUsage is the merged set of exports consumed from one module.
type ModuleUsage struct {
	// All is set when some edge consumes the whole exports object.
	All bool `json:"all"`
	// Exports are the individually referenced paths, sorted. They are kept
	// even when All is set.
	Exports []dependency.ExportPath `json:"exports"`
	// Referrers counts the resolved edges pointing at the module.
	Referrers int `json:"referrers"`
}

// Names renders the usage as sorted strings, with "*" first when All is set.
func (u ModuleUsage) Names() []string {
	out := make([]string, 0, len(u.Exports)+1)
	if u.All {
		out = append(out, "*")
	}
	for _, p := range u.Exports {
		out = append(out, p.String())
	}
	return out
}

// Usage maps module IDs to what is consumed from them. Modules no edge
// resolved to are absent.
type Usage map[string]ModuleUsage

// ModuleIDs returns the keys of u, sorted.
func (u Usage) ModuleIDs() []string {
	return slices.Sorted(maps.Keys(u))
}

// CollectUsage merges the referenced exports of every resolved edge of g,
// evaluated for runtime.
func CollectUsage(g *modgraph.Graph, runtime dependency.RuntimeSpec) Usage {
	type acc struct {
		all       bool
		paths     map[string]dependency.ExportPath
		referrers int
	}
	byModule := make(map[string]*acc)

	for _, e := range g.Edges() {
		a := byModule[e.To]
		if a == nil {
			a = &acc{paths: make(map[string]dependency.ExportPath)}
			byModule[e.To] = a
		}
		a.referrers++
		for _, p := range e.Dep.ReferencedExports(g, runtime) {
			if p.IsWildcard() {
				a.all = true
				continue
			}
			a.paths[strings.Join(p, "\x00")] = p
		}
	}

	out := make(Usage, len(byModule))
	for id, a := range byModule {
		keys := slices.Sorted(maps.Keys(a.paths))
		exports := make([]dependency.ExportPath, len(keys))
		for i, k := range keys {
			exports[i] = a.paths[k]
		}
		out[id] = ModuleUsage{All: a.all, Exports: exports, Referrers: a.referrers}
	}
	return out
}
