package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/wasm"
)

func TestLoad(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "app.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if m.Name != "app" {
		t.Errorf("Name = %q, want app", m.Name)
	}
	if len(m.Runtime) != 1 || m.Runtime[0] != "main" {
		t.Errorf("Runtime = %v, want [main]", m.Runtime)
	}
	if len(m.Modules) != 3 {
		t.Fatalf("len(Modules) = %d, want 3", len(m.Modules))
	}

	mod, ok := m.Module("src/math.wasm")
	if !ok {
		t.Fatal("Module(src/math.wasm) not found")
	}
	deps, err := mod.BuildDependencies()
	if err != nil {
		t.Fatalf("BuildDependencies() error: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("len(deps) = %d, want 2", len(deps))
	}

	imp, ok := deps[0].(*wasm.ImportDependency)
	if !ok {
		t.Fatalf("deps[0] = %T, want *wasm.ImportDependency", deps[0])
	}
	if imp.OnlyDirectImport() != "Memory" {
		t.Errorf("OnlyDirectImport() = %q, want Memory", imp.OnlyDirectImport())
	}
	if imp.UserRequest() != "env" {
		t.Errorf("UserRequest() = %q, want env", imp.UserRequest())
	}
	if imp.Loc().Name != "wasm import 0" {
		t.Errorf("Loc() = %v, want wasm import 0", imp.Loc())
	}
	desc := imp.Description()
	if desc.Descr.Kind != wasm.DescrMemory || desc.Descr.Limits == nil || desc.Descr.Limits.Max == nil || *desc.Descr.Limits.Max != 16 {
		t.Errorf("Description() = %+v, want memory with max 16", desc)
	}

	exp, ok := deps[1].(*wasm.ExportImportedDependency)
	if !ok {
		t.Fatalf("deps[1] = %T, want *wasm.ExportImportedDependency", deps[1])
	}
	if exp.ExportName() != "print" || exp.Name() != "log" || exp.ValueType() != "i32" || !exp.Weak() {
		t.Errorf("export import = %q %q %q weak=%v", exp.ExportName(), exp.Name(), exp.ValueType(), exp.Weak())
	}
}

func TestBuildDefaultsDescription(t *testing.T) {
	d := Dependency{Kind: wasm.TypeImport, Request: "./math.wasm", Name: "add", Loc: "3:0-24", Range: []int{1, 5}}
	dep, err := d.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	imp := dep.(*wasm.ImportDependency)
	want := wasm.ModuleImportDescription{Module: "./math.wasm", Name: "add"}
	if imp.Description().Module != want.Module || imp.Description().Name != want.Name {
		t.Errorf("Description() = %+v, want %+v", imp.Description(), want)
	}
	if got := imp.Loc().String(); got != "3:0-24" {
		t.Errorf("Loc() = %s, want 3:0-24", got)
	}
	if r := imp.Range(); r == nil || *r != (dependency.Range{Start: 1, End: 5}) {
		t.Errorf("Range() = %v, want 1..5", r)
	}
	if got := dep.ReferencedExports(nil, nil); len(got) != 1 || got[0].String() != "add" {
		t.Errorf("ReferencedExports() = %v, want [add]", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[[modules]\n"},
		{"no modules", `name = "x"`},
		{"unknown key", "[[modules]]\nid = \"a.js\"\ntype = \"javascript/auto\"\ncolor = \"red\"\n"},
		{"empty id", "[[modules]]\nid = \"\"\ntype = \"javascript/auto\"\n"},
		{"bad type", "[[modules]]\nid = \"a.js\"\ntype = \"css\"\n"},
		{"duplicate", "[[modules]]\nid = \"a.js\"\ntype = \"json\"\n[[modules]]\nid = \"a.js\"\ntype = \"json\"\n"},
		{"unknown kind", depManifest(`kind = "cjs require"` + "\nrequest = \"./b\"\nname = \"x\"")},
		{"no request", depManifest(`kind = "wasm import"` + "\nname = \"x\"")},
		{"no name", depManifest(`kind = "wasm import"` + "\nrequest = \"./b\"")},
		{"no export name", depManifest(`kind = "wasm export import"` + "\nrequest = \"./b\"\nname = \"x\"")},
		{"bad range", depManifest(`kind = "wasm import"` + "\nrequest = \"./b\"\nname = \"x\"\nrange = [5, 1]")},
		{"bad loc", depManifest(`kind = "wasm import"` + "\nrequest = \"./b\"\nname = \"x\"\nloc = \"3:x\"")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() = nil error, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("Parse() error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func depManifest(dep string) string {
	return "[[modules]]\nid = \"a.js\"\ntype = \"javascript/auto\"\n[[modules.dependencies]]\n" + dep + "\n"
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadRoundTripsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.toml")
	if err := os.WriteFile(path, []byte(depManifest("kind = \"wasm import\"\nrequest = \"./b.wasm\"\nname = \"f\"")), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.Modules[0].Dependencies[0].Request; got != "./b.wasm" {
		t.Errorf("Request = %q, want ./b.wasm", got)
	}
}
