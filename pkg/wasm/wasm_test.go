package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

type module struct{ id, typ string }

func (m module) Identifier() string { return m.id }
func (m module) Type() string       { return m.typ }

// graph resolves dependencies by identity, like the real module graph.
type graph map[dependency.Dependency]dependency.Module

func (g graph) GetModule(dep dependency.Dependency) (dependency.Module, bool) {
	m, ok := g[dep]
	return m, ok
}

func registry(t *testing.T) *serialization.Registry {
	t.Helper()
	reg := serialization.NewRegistry()
	require.NoError(t, reg.RegisterAll(Kinds()...))
	reg.Seal()
	return reg
}

func addDescription() ModuleImportDescription {
	return ModuleImportDescription{
		Module: "./math.wasm",
		Name:   "add",
		Descr:  ImportDescr{Kind: DescrFunc, ID: "add", Params: []string{"i32", "i32"}, Results: []string{"i32"}},
	}
}

func TestImportDependencyTags(t *testing.T) {
	a := NewImportDependency("./a.wasm", "a", ModuleImportDescription{}, "")
	b := NewImportDependency("./b.wasm", "b", addDescription(), "Memory")

	assert.Equal(t, "wasm import", a.Type())
	assert.Equal(t, "wasm", a.Category())
	assert.Equal(t, a.Type(), b.Type())
	assert.Equal(t, a.Category(), b.Category())
}

func TestImportDependencyReferencedExports(t *testing.T) {
	tests := []struct {
		name string
		dep  *ImportDependency
	}{
		{"no constraint", NewImportDependency("./math.wasm", "add", addDescription(), "")},
		{"direct only", NewImportDependency("./math.wasm", "add", addDescription(), "i64 as parameter")},
		{"empty description", NewImportDependency("./math.wasm", "add", ModuleImportDescription{}, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.dep.ReferencedExports(graph{}, nil)
			second := tt.dep.ReferencedExports(graph{}, dependency.RuntimeSpec{"main"})
			assert.Equal(t, []dependency.ExportPath{{"add"}}, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestImportDependencyErrors(t *testing.T) {
	const reason = "wasm-to-wasm linking"

	tests := []struct {
		name       string
		directOnly string
		target     *module
		wantErrors int
	}{
		{"no constraint, js target", "", &module{"./math.wasm", "javascript/auto"}, 0},
		{"no constraint, wasm target", "", &module{"./math.wasm", "webassembly/async"}, 0},
		{"constraint, js target", reason, &module{"./math.wasm", "javascript/auto"}, 1},
		{"constraint, json target", reason, &module{"./math.wasm", "json"}, 1},
		{"constraint, async wasm target", reason, &module{"./math.wasm", "webassembly/async"}, 0},
		{"constraint, sync wasm target", reason, &module{"./math.wasm", "webassembly/sync"}, 0},
		{"constraint, unresolved", reason, nil, 0},
		{"no constraint, unresolved", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep := NewImportDependency("./math.wasm", "add", addDescription(), tt.directOnly)
			g := graph{}
			if tt.target != nil {
				g[dep] = *tt.target
			}

			errs := dep.Errors(g)
			require.Len(t, errs, tt.wantErrors)
			for _, e := range errs {
				assert.Equal(t, UnsupportedFeatureErrorName, e.Name)
				assert.Contains(t, e.Message, "add")
				assert.Contains(t, e.Message, "./math.wasm")
				assert.Contains(t, e.Message, reason)
				assert.Same(t, dep, e.Dependency)
			}
		})
	}
}

func TestImportDependencyErrorMessage(t *testing.T) {
	dep := NewImportDependency("./math.wasm", "add", addDescription(), "wasm-to-wasm linking")

	errs := dep.Errors(graph{dep: module{"./math.wasm", "javascript/auto"}})
	require.Len(t, errs, 1)
	assert.Equal(t,
		`Import "add" from "./math.wasm" with wasm-to-wasm linking can only be used for direct wasm to wasm dependencies`,
		errs[0].Message)

	assert.Empty(t, dep.Errors(graph{dep: module{"./math.wasm", "webassembly/async"}}))
}

func TestImportDependencyErrorsNilGraph(t *testing.T) {
	dep := NewImportDependency("./math.wasm", "add", addDescription(), "Memory")
	assert.Nil(t, dep.Errors(nil))
}

func TestImportDependencyRoundTrip(t *testing.T) {
	reg := registry(t)
	maxPages := 4
	loc := dependency.Location{Start: &dependency.Position{Line: 1, Column: 0}}

	tests := []struct {
		name string
		dep  *ImportDependency
	}{
		{"func, unconstrained", NewImportDependency("./math.wasm", "add", addDescription(), "")},
		{"func, direct only", NewImportDependency("./math.wasm", "add", addDescription(), "i64 as parameter",
			dependency.WithLoc(loc), dependency.WithRange(4, 9))},
		{"memory", NewImportDependency("./env.js", "memory", ModuleImportDescription{
			Module: "./env.js", Name: "memory",
			Descr: ImportDescr{Kind: DescrMemory, Limits: &Limits{Min: 1, Max: &maxPages}},
		}, "Memory", dependency.WithUserRequest("env"))},
		{"global", NewImportDependency("./env.js", "g", ModuleImportDescription{
			Module: "./env.js", Name: "g",
			Descr: ImportDescr{Kind: DescrGlobal, ValType: "i64", Mutable: true, Params: []string{}},
		}, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := serialization.Encode(reg, tt.dep)
			require.NoError(t, err)

			obj, err := serialization.Decode(reg, data)
			require.NoError(t, err)
			out, ok := obj.(*ImportDependency)
			require.True(t, ok, "decoded %T", obj)

			assert.Equal(t, tt.dep, out)
			assert.Equal(t, tt.dep.Name(), out.Name())
			assert.Equal(t, tt.dep.Description(), out.Description())
			assert.Equal(t, tt.dep.OnlyDirectImport(), out.OnlyDirectImport())
			assert.Equal(t, tt.dep.Request(), out.Request())
			assert.Equal(t, tt.dep.Type(), out.Type())
			assert.Equal(t, tt.dep.Category(), out.Category())
		})
	}
}

func TestImportDependencyRecordLayout(t *testing.T) {
	reg := registry(t)

	fields := func(dep *ImportDependency) []bson.RawValue {
		data, err := serialization.Encode(reg, dep)
		require.NoError(t, err)
		var rec struct {
			R []bson.RawValue `bson:"r"`
		}
		require.NoError(t, bson.Unmarshal(data, &rec))
		return rec.R
	}

	r := fields(NewImportDependency("./math.wasm", "add", addDescription(), ""))
	require.Len(t, r, 10)
	assert.Equal(t, ImportDependencyID, r[0].StringValue())
	assert.Equal(t, "add", r[1].StringValue())
	assert.Equal(t, bsontype.EmbeddedDocument, r[2].Type)
	assert.Equal(t, bsontype.Boolean, r[3].Type)
	assert.False(t, r[3].Boolean())
	assert.Equal(t, "./math.wasm", r[4].StringValue())

	r = fields(NewImportDependency("./math.wasm", "add", addDescription(), "Memory"))
	assert.Equal(t, "Memory", r[3].StringValue())
}

func TestImportDependencyRejectsTrueDirectOnly(t *testing.T) {
	reg := registry(t)
	data, err := bson.Marshal(bson.D{{Key: "r", Value: bson.A{
		ImportDependencyID, "add", addDescription(), true,
		"./math.wasm", "./math.wasm", nil, false, false, dependency.Location{},
	}}})
	require.NoError(t, err)

	_, err = serialization.Decode(reg, data)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRecord), "got %v", err)
}

func TestExportImportedDependency(t *testing.T) {
	reg := registry(t)
	dep := NewExportImportedDependency("sum", "./math.js", "add", "i32", dependency.Weak())

	assert.Equal(t, "wasm export import", dep.Type())
	assert.Equal(t, "wasm", dep.Category())
	assert.Equal(t, []dependency.ExportPath{{"add"}}, dep.ReferencedExports(nil, nil))
	assert.Nil(t, dep.Errors(graph{dep: module{"./math.js", "javascript/auto"}}))

	data, err := serialization.Encode(reg, dep)
	require.NoError(t, err)
	obj, err := serialization.Decode(reg, data)
	require.NoError(t, err)
	assert.Equal(t, dep, obj)
}

func TestMixedStreamRoundTrip(t *testing.T) {
	reg := registry(t)
	deps := []dependency.Dependency{
		NewImportDependency("./math.wasm", "add", addDescription(), "wasm-to-wasm linking"),
		NewExportImportedDependency("sum", "./math.js", "add", "i32"),
	}

	data, err := dependency.WriteAll(reg, deps)
	require.NoError(t, err)
	out, err := dependency.ReadAll(reg, data)
	require.NoError(t, err)
	assert.Equal(t, deps, out)
}

func TestDecodeWithoutRegistration(t *testing.T) {
	data, err := serialization.Encode(registry(t), NewImportDependency("./math.wasm", "add", addDescription(), ""))
	require.NoError(t, err)

	_, err = serialization.Decode(serialization.NewRegistry(), data)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownKind), "got %v", err)
}

func TestImportDependencyErrorMessageKeepsRawText(t *testing.T) {
	dep := NewImportDependency(`./we"ird\.js`, `x"y`, ModuleImportDescription{}, "Memory")

	errs := dep.Errors(graph{dep: module{`./we"ird\.js`, "javascript/auto"}})
	require.Len(t, errs, 1)
	assert.Equal(t,
		`Import "x"y" from "./we"ird\.js" with Memory can only be used for direct wasm to wasm dependencies`,
		errs[0].Message)
}
