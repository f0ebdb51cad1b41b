package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// harmonyImport is a minimal kind that relies on the base defaults.
type harmonyImport struct {
	ModuleDependency
	ids []string
}

func (d *harmonyImport) Type() string     { return "harmony import specifier" }
func (d *harmonyImport) Category() string { return "esm" }

func (d *harmonyImport) Serialize(w *serialization.ObjectWriter) error {
	w.Write(d.ids)
	return d.ModuleDependency.Serialize(w)
}

func (d *harmonyImport) Deserialize(r *serialization.ObjectReader) error {
	if err := r.Read(&d.ids); err != nil {
		return err
	}
	return d.ModuleDependency.Deserialize(r)
}

type notADependency struct{}

func (notADependency) Serialize(*serialization.ObjectWriter) error   { return nil }
func (notADependency) Deserialize(*serialization.ObjectReader) error { return nil }

func testRegistry(t *testing.T) *serialization.Registry {
	t.Helper()
	reg := serialization.NewRegistry()
	require.NoError(t, reg.RegisterAll(
		serialization.Kind{ID: "test/HarmonyImport", New: func() serialization.Serializable { return &harmonyImport{} }},
		serialization.Kind{ID: "test/NotADependency", New: func() serialization.Serializable { return notADependency{} }},
	))
	reg.Seal()
	return reg
}

func TestModuleDependencyDefaults(t *testing.T) {
	d := &harmonyImport{ModuleDependency: NewModuleDependency("./util.js")}

	assert.Equal(t, "./util.js", d.Request())
	assert.Equal(t, "./util.js", d.UserRequest())
	assert.Nil(t, d.Range())
	assert.False(t, d.Weak())
	assert.False(t, d.Optional())
	assert.True(t, d.Loc().IsZero())
	assert.Nil(t, d.Errors(nil))

	refs := d.ReferencedExports(nil, nil)
	require.Len(t, refs, 1)
	assert.True(t, refs[0].IsWildcard())
}

func TestModuleDependencyOptions(t *testing.T) {
	loc := Location{Start: &Position{Line: 3, Column: 0}, End: &Position{Line: 3, Column: 24}}
	d := NewModuleDependency("./util", WithUserRequest("util"), WithRange(10, 20), WithLoc(loc), Weak(), Optional())

	assert.Equal(t, "./util", d.Request())
	assert.Equal(t, "util", d.UserRequest())
	assert.Equal(t, &Range{Start: 10, End: 20}, d.Range())
	assert.True(t, d.Weak())
	assert.True(t, d.Optional())
	assert.Equal(t, "3:0-24", d.Loc().String())

	// Range returns a copy.
	d.Range().Start = 99
	assert.Equal(t, 10, d.Range().Start)
}

func TestWriteAllReadAllRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	loc := Location{Start: &Position{Line: 1, Column: 4}}
	deps := []Dependency{
		&harmonyImport{ModuleDependency: NewModuleDependency("./a.js"), ids: []string{"default"}},
		&harmonyImport{
			ModuleDependency: NewModuleDependency("./b.js", WithUserRequest("b"), WithRange(0, 12), WithLoc(loc), Weak()),
			ids:              []string{"ns", "fn"},
		},
		&harmonyImport{ModuleDependency: NewModuleDependency("./c.js", WithLoc(Location{Name: "synthetic"}), Optional())},
	}

	data, err := WriteAll(reg, deps)
	require.NoError(t, err)

	out, err := ReadAll(reg, data)
	require.NoError(t, err)
	assert.Equal(t, deps, out)
}

func TestReadAllRejectsNonDependency(t *testing.T) {
	reg := testRegistry(t)
	data, err := serialization.Encode(reg, notADependency{})
	require.NoError(t, err)

	_, err = ReadAll(reg, data)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRecord), "got %v", err)
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "*", ExportPath{}.String())
	assert.Equal(t, "add", ExportPath{"add"}.String())
	assert.Equal(t, "default.add", ExportPath{"default", "add"}.String())
	assert.Nil(t, NoExportsReferenced())
}

func TestRuntimeSpecString(t *testing.T) {
	assert.Equal(t, "*", RuntimeSpec(nil).String())
	assert.Equal(t, "main|worker", RuntimeSpec{"main", "worker"}.String())
}

func TestDiagnostic(t *testing.T) {
	loc := Location{Start: &Position{Line: 2, Column: 1}}
	dep := &harmonyImport{ModuleDependency: NewModuleDependency("./x", WithLoc(loc))}

	d := NewDiagnostic("SomeError", "bad import", dep)
	assert.Equal(t, "bad import", d.Error())
	assert.Equal(t, "SomeError: bad import (2:1)", d.String())
	assert.Same(t, dep, d.Dependency)

	bare := NewDiagnostic("SomeError", "no loc", nil)
	assert.Equal(t, "SomeError: no loc", bare.String())
}
