// Package modgraph holds the modules of a build and the module each
// dependency resolved to.
//
// # Resolution
//
// Dependencies are attached to the module that contains them with
// [Graph.AddDependency]. [Graph.Resolve] then maps each dependency's request
// to a module ID: an exact match wins, otherwise relative requests ("./x",
// "../x") are joined with the directory of the origin module. Dependencies
// that match nothing stay unresolved, which is not an error.
//
// The resolution is keyed by dependency identity, so two equal-looking
// dependencies from different origins resolve independently. [Graph]
// implements [dependency.ModuleGraph] for the per-edge queries.
//
// # Concurrency
//
// A Graph is safe for concurrent use. Reads take a read lock and never
// mutate, so validation may query it from many goroutines.
package modgraph
