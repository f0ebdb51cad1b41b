package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
	"github.com/matzehuels/bundledeps/pkg/wasm"
)

// wholeExports is an edge that consumes the entire exports object.
type wholeExports struct {
	dependency.ModuleDependency
}

func (*wholeExports) Type() string     { return "cjs require" }
func (*wholeExports) Category() string { return "commonjs" }

func newWhole(request string) *wholeExports {
	return &wholeExports{ModuleDependency: dependency.NewModuleDependency(request)}
}

func imp(request, name, directOnly string) *wasm.ImportDependency {
	return wasm.NewImportDependency(request, name, wasm.ModuleImportDescription{}, directOnly)
}

type fixture struct {
	g    *modgraph.Graph
	bad  *wasm.ImportDependency
	good *wasm.ImportDependency
}

func buildGraph(t *testing.T) fixture {
	t.Helper()
	g := modgraph.New()
	for _, m := range []*modgraph.Module{
		modgraph.NewModule("app.js", modgraph.TypeJavaScriptAuto),
		modgraph.NewModule("math.wasm", modgraph.TypeWebAssemblyAsync),
		modgraph.NewModule("env.js", modgraph.TypeJavaScriptESM),
		modgraph.NewModule("util.wasm", modgraph.TypeWebAssemblySync),
	} {
		require.NoError(t, g.AddModule(m))
	}

	f := fixture{
		g:    g,
		bad:  imp("./env.js", "memory", "Memory"),
		good: imp("./util.wasm", "sum", "i64 as parameter"),
	}
	require.NoError(t, g.AddDependency("app.js", imp("./math.wasm", "add", "")))
	require.NoError(t, g.AddDependency("app.js", imp("./math.wasm", "sub", "")))
	require.NoError(t, g.AddDependency("app.js", newWhole("./env.js")))
	require.NoError(t, g.AddDependency("math.wasm", f.bad))
	require.NoError(t, g.AddDependency("math.wasm", f.good))
	require.NoError(t, g.AddDependency("math.wasm", imp("./env.js", "log", "")))
	require.NoError(t, g.AddDependency("math.wasm", imp("./missing.wasm", "x", "i64 as parameter")))
	g.Resolve()
	return f
}

func TestCollectUsage(t *testing.T) {
	f := buildGraph(t)
	usage := CollectUsage(f.g, nil)

	assert.Equal(t, []string{"env.js", "math.wasm", "util.wasm"}, usage.ModuleIDs())

	math := usage["math.wasm"]
	assert.False(t, math.All)
	assert.Equal(t, []string{"add", "sub"}, math.Names())
	assert.Equal(t, 2, math.Referrers)

	env := usage["env.js"]
	assert.True(t, env.All)
	assert.Equal(t, []string{"*", "log", "memory"}, env.Names())
	assert.Equal(t, 3, env.Referrers)

	_, ok := usage["app.js"]
	assert.False(t, ok, "unreferenced module must not appear")
}

func TestCollectUsageDeterministic(t *testing.T) {
	f := buildGraph(t)
	first := CollectUsage(f.g, nil)
	for range 5 {
		assert.Equal(t, first, CollectUsage(f.g, dependency.RuntimeSpec{"main"}))
	}
}

func TestValidate(t *testing.T) {
	f := buildGraph(t)

	for _, workers := range []int{0, 1, 3, 16} {
		report, err := Validate(context.Background(), f.g, workers)
		require.NoError(t, err)

		require.Len(t, report.Modules, 4)
		assert.Equal(t, "app.js", report.Modules[0].Module)
		assert.Equal(t, 7, report.Checked())
		assert.False(t, report.OK())

		diags := report.Diagnostics()
		require.Len(t, diags, 1, "workers=%d", workers)
		assert.Same(t, f.bad, diags[0].Dependency)
		assert.Equal(t, wasm.UnsupportedFeatureErrorName, diags[0].Name)
		assert.Equal(t,
			`Import "memory" from "./env.js" with Memory can only be used for direct wasm to wasm dependencies`,
			diags[0].Message)
	}
}

func TestValidateCleanGraph(t *testing.T) {
	g := modgraph.New()
	require.NoError(t, g.AddModule(modgraph.NewModule("a.js", modgraph.TypeJavaScriptAuto)))
	require.NoError(t, g.AddModule(modgraph.NewModule("b.wasm", modgraph.TypeWebAssemblyAsync)))
	require.NoError(t, g.AddDependency("a.js", imp("./b.wasm", "f", "i64 as parameter")))
	g.Resolve()

	report, err := Validate(context.Background(), g, 2)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.Count())
}

func TestValidateCanceled(t *testing.T) {
	f := buildGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Validate(ctx, f.g, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
