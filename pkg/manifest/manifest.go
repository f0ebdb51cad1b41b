// Package manifest loads build manifests: TOML files that declare the
// modules of a build and the dependencies each module contains.
//
// A manifest stands in for the parsers of a real bundler. Each entry under
// [[modules.dependencies]] becomes one edge of the kind named by its kind
// key, which is the kind's type tag:
//
//	[[modules]]
//	id = "src/index.js"
//	type = "javascript/auto"
//
//	[[modules.dependencies]]
//	kind = "wasm import"
//	request = "./math.wasm"
//	name = "add"
//	only_direct_import = "i64 as parameter"
//	loc = "3:0-3:24"
package manifest

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
	"github.com/matzehuels/bundledeps/pkg/wasm"
)

// Manifest is a parsed build manifest.
type Manifest struct {
	Name    string   `toml:"name"`
	Runtime []string `toml:"runtime"`
	Modules []Module `toml:"modules"`
}

// Module declares one module and the dependencies found in it.
type Module struct {
	ID           string       `toml:"id"`
	Type         string       `toml:"type"`
	Dependencies []Dependency `toml:"dependencies"`
}

// Dependency declares one edge. Which fields apply depends on Kind.
type Dependency struct {
	Kind        string `toml:"kind"`
	Request     string `toml:"request"`
	UserRequest string `toml:"user_request,omitempty"`
	Loc         string `toml:"loc,omitempty"`
	Range       []int  `toml:"range,omitempty"`
	Weak        bool   `toml:"weak,omitempty"`
	Optional    bool   `toml:"optional,omitempty"`

	// wasm import / wasm export import
	Name             string                        `toml:"name,omitempty"`
	OnlyDirectImport string                        `toml:"only_direct_import,omitempty"`
	Description      *wasm.ModuleImportDescription `toml:"description,omitempty"`

	// wasm export import
	ExportName string `toml:"export_name,omitempty"`
	ValueType  string `toml:"value_type,omitempty"`
}

// Kinds lists the dependency kinds a manifest may declare.
var Kinds = []string{wasm.TypeImport, wasm.TypeExportImport}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates manifest data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest key %q", undecoded[0].String())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks module IDs, module types and every dependency.
func (m *Manifest) Validate() error {
	if len(m.Modules) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest declares no modules")
	}
	seen := make(map[string]bool, len(m.Modules))
	for i, mod := range m.Modules {
		if err := errors.ValidateModuleID(mod.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "modules[%d]", i)
		}
		if seen[mod.ID] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate module %q", mod.ID)
		}
		seen[mod.ID] = true
		if !modgraph.IsKnownType(mod.Type) {
			return errors.New(errors.ErrCodeInvalidManifest, "module %q: unknown type %q", mod.ID, mod.Type)
		}
		for j, d := range mod.Dependencies {
			if err := d.validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "module %q: dependencies[%d]", mod.ID, j)
			}
		}
	}
	return nil
}

// Module returns the module with the given ID.
func (m *Manifest) Module(id string) (Module, bool) {
	i := slices.IndexFunc(m.Modules, func(mod Module) bool { return mod.ID == id })
	if i < 0 {
		return Module{}, false
	}
	return m.Modules[i], true
}

// BuildDependencies constructs the edges declared by the module, in
// declaration order.
func (mod Module) BuildDependencies() ([]dependency.Dependency, error) {
	out := make([]dependency.Dependency, 0, len(mod.Dependencies))
	for i, d := range mod.Dependencies {
		dep, err := d.Build()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "module %q: dependencies[%d]", mod.ID, i)
		}
		out = append(out, dep)
	}
	return out, nil
}

func (d Dependency) validate() error {
	if !slices.Contains(Kinds, d.Kind) {
		return errors.New(errors.ErrCodeInvalidManifest, "unknown kind %q", d.Kind)
	}
	if err := errors.ValidateRequest(d.Request); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "%s requires a name", d.Kind)
	}
	if d.Kind == wasm.TypeExportImport && d.ExportName == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "%s requires export_name", d.Kind)
	}
	if d.Range != nil && (len(d.Range) != 2 || d.Range[0] > d.Range[1]) {
		return errors.New(errors.ErrCodeInvalidManifest, "range must be [start, end], got %v", d.Range)
	}
	if _, err := dependency.ParseLocation(d.Loc); err != nil {
		return err
	}
	return nil
}

// Build constructs the edge d declares.
func (d Dependency) Build() (dependency.Dependency, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	loc, _ := dependency.ParseLocation(d.Loc)

	var opts []dependency.Option
	if d.UserRequest != "" {
		opts = append(opts, dependency.WithUserRequest(d.UserRequest))
	}
	if !loc.IsZero() {
		opts = append(opts, dependency.WithLoc(loc))
	}
	if d.Range != nil {
		opts = append(opts, dependency.WithRange(d.Range[0], d.Range[1]))
	}
	if d.Weak {
		opts = append(opts, dependency.Weak())
	}
	if d.Optional {
		opts = append(opts, dependency.Optional())
	}

	switch d.Kind {
	case wasm.TypeImport:
		desc := wasm.ModuleImportDescription{Module: d.Request, Name: d.Name}
		if d.Description != nil {
			desc = *d.Description
		}
		return wasm.NewImportDependency(d.Request, d.Name, desc, d.OnlyDirectImport, opts...), nil
	case wasm.TypeExportImport:
		return wasm.NewExportImportedDependency(d.ExportName, d.Request, d.Name, d.ValueType, opts...), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown kind %q", d.Kind)
	}
}
