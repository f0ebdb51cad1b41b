// Package pkg holds the libraries behind bundledeps.
//
// # Overview
//
// bundledeps models the edges of a bundler's module graph. Each edge is a
// dependency kind that knows which exports of its target it consumes and
// which targets it cannot accept. Kinds are persisted through a registry so
// that a cache can rebuild them on the next run.
//
// The typical data flow:
//
//	TOML manifest
//	     ↓
//	[manifest] (declared modules and dependencies)
//	     ↓
//	[pipeline] (extract, restore from [cache], resolve)
//	     ↓
//	[modgraph] (modules, edges, resolution)
//	     ↓
//	[analysis] (referenced exports, diagnostics)
//	     ↓
//	terminal, JSON or [render/nodelink] DOT/SVG
//
// # Packages
//
// Dependency model:
//   - [dependency]: the Dependency contract, locations, diagnostics and streams
//   - [wasm]: WebAssembly import and export-import kinds
//   - [serialization]: kind registry and BSON record codec
//   - [errors]: coded errors shared by every package
//
// Graph and analysis:
//   - [modgraph]: the module graph and request resolution
//   - [analysis]: export usage and concurrent validation
//   - [manifest]: the TOML build manifest
//   - [pipeline]: one complete check, with caching
//
// Infrastructure:
//   - [cache]: file, memory, Redis and MongoDB backends
//   - [observability]: hooks and Prometheus metrics
//   - [render]: output formats and Graphviz diagrams
//   - [buildinfo]: version information
//
// [dependency]: github.com/matzehuels/bundledeps/pkg/dependency
// [wasm]: github.com/matzehuels/bundledeps/pkg/wasm
// [serialization]: github.com/matzehuels/bundledeps/pkg/serialization
// [errors]: github.com/matzehuels/bundledeps/pkg/errors
// [modgraph]: github.com/matzehuels/bundledeps/pkg/modgraph
// [analysis]: github.com/matzehuels/bundledeps/pkg/analysis
// [manifest]: github.com/matzehuels/bundledeps/pkg/manifest
// [pipeline]: github.com/matzehuels/bundledeps/pkg/pipeline
// [cache]: github.com/matzehuels/bundledeps/pkg/cache
// [observability]: github.com/matzehuels/bundledeps/pkg/observability
// [render]: github.com/matzehuels/bundledeps/pkg/render
// [render/nodelink]: github.com/matzehuels/bundledeps/pkg/render/nodelink
// [buildinfo]: github.com/matzehuels/bundledeps/pkg/buildinfo
package pkg
