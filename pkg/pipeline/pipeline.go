// Package pipeline runs a complete dependency check of one build manifest.
//
// The pipeline is shared by the CLI and the HTTP server so both behave the
// same way:
//
//  1. Load: parse and validate the manifest.
//  2. Extract: build each module's dependencies, or restore them from the
//     cache when the module is unchanged.
//  3. Resolve: add modules and dependencies to a module graph and match
//     requests to module IDs.
//  4. Analyse: collect referenced exports and validate every edge.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, serialization.Global(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ManifestPath: "bundle.toml",
//	    Runtime:      []string{"main"},
//	})
//	for _, d := range result.Report.Diagnostics() {
//	    fmt.Println(d)
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundledeps/pkg/analysis"
	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/manifest"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
)

// DefaultWorkers is the validation concurrency when Options.Workers is 0.
// Zero lets analysis.Validate pick GOMAXPROCS.
const DefaultWorkers = 0

// cacheKeyType labels dependency cache events for observability hooks.
const cacheKeyType = "dependencies"

// Options configures one pipeline run.
type Options struct {
	// ManifestPath is read when ManifestData is empty.
	ManifestPath string `json:"manifest_path,omitempty"`
	// ManifestData is an inline TOML manifest.
	ManifestData []byte `json:"-"`

	// Runtime overrides the manifest's runtime for usage analysis.
	Runtime []string `json:"runtime,omitempty"`
	// Workers bounds validation concurrency.
	Workers int `json:"workers,omitempty"`
	// Refresh ignores cached dependency streams and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks that a manifest source is given.
func (o *Options) Validate() error {
	if o.ManifestPath == "" && len(o.ManifestData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no manifest given")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be >= 0, got %d", o.Workers)
	}
	return nil
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	Manifest *manifest.Manifest
	Graph    *modgraph.Graph
	Runtime  dependency.RuntimeSpec

	// Unresolved lists dependencies whose request matched no module.
	Unresolved []dependency.Dependency

	Usage  analysis.Usage
	Report *analysis.Report

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	Modules      int
	Dependencies int
	Edges        int
	ExtractTime  time.Duration
	ValidateTime time.Duration
	TotalTime    time.Duration
}

// CacheInfo counts dependency cache outcomes per module.
type CacheInfo struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	// Discarded counts entries that were found but could not be decoded
	// and were deleted. They are also counted as misses.
	Discarded int `json:"discarded"`
}
