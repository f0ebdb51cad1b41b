// Package analysis runs the graph-wide passes over resolved dependencies.
//
// [CollectUsage] asks every resolved edge which exports of its target it
// consumes and merges the answers per target module. [Validate] asks every
// edge whether it is legal against the graph and aggregates the diagnostics
// into a [Report].
//
// Both passes are read-only on the graph. Validate fans out one task per
// module on a bounded worker pool; results land in per-module slots, so
// the report order never depends on scheduling.
package analysis
