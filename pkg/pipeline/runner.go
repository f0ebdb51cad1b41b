package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bundledeps/pkg/analysis"
	"github.com/matzehuels/bundledeps/pkg/cache"
	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/manifest"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
	"github.com/matzehuels/bundledeps/pkg/observability"
	"github.com/matzehuels/bundledeps/pkg/serialization"
)

// Runner executes pipeline runs against a dependency cache.
//
// A Runner holds no per-run state. Several goroutines may call Execute on
// the same Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *serialization.Registry
	Logger   *log.Logger

	// TTL of persisted dependency streams. Zero uses cache.TTLDependencies.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// DefaultKeyer, a nil registry uses serialization.Global and a nil logger
// uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, reg *serialization.Registry, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if reg == nil {
		reg = serialization.Global()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Registry: reg, Logger: logger}
}

// Execute runs load, extract, resolve and analyse.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	start := time.Now()
	runID := uuid.NewString()

	m, err := loadManifest(opts)
	if err != nil {
		return nil, err
	}

	observability.Pipeline().OnRunStart(ctx, runID, len(m.Modules))
	defer func() {
		diags := 0
		if result != nil {
			diags = result.Report.Count()
		}
		observability.Pipeline().OnRunComplete(ctx, runID, diags, time.Since(start), err)
	}()

	logger = logger.With("run", runID[:8])
	result = &Result{RunID: runID, Manifest: m, Graph: modgraph.New()}
	result.Runtime = dependency.RuntimeSpec(m.Runtime)
	if len(opts.Runtime) > 0 {
		result.Runtime = dependency.RuntimeSpec(opts.Runtime)
	}

	// Extract
	extractStart := time.Now()
	for _, mod := range m.Modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deps, info, err := r.extract(ctx, logger, mod, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", mod.ID, err)
		}
		result.CacheInfo.add(info)

		gm := modgraph.NewModule(mod.ID, mod.Type)
		if err := result.Graph.AddModule(gm); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "add module %s", mod.ID)
		}
		for _, d := range deps {
			if err := result.Graph.AddDependency(mod.ID, d); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add dependency of %s", mod.ID)
			}
		}
		result.Stats.Dependencies += len(deps)
	}
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.Modules = result.Graph.ModuleCount()

	logger.Info("extracted dependencies",
		"modules", result.Stats.Modules,
		"dependencies", result.Stats.Dependencies,
		"cache_hits", result.CacheInfo.Hits,
		"duration", result.Stats.ExtractTime)

	// Resolve
	result.Unresolved = result.Graph.Resolve()
	result.Stats.Edges = len(result.Graph.Edges())
	for _, d := range result.Unresolved {
		logger.Debug("unresolved request", "request", d.Request(), "type", d.Type())
	}

	// Analyse
	result.Usage = analysis.CollectUsage(result.Graph, result.Runtime)

	validateStart := time.Now()
	result.Report, err = analysis.Validate(ctx, result.Graph, opts.Workers)
	if err != nil {
		return nil, err
	}
	result.Stats.ValidateTime = time.Since(validateStart)
	result.Stats.TotalTime = time.Since(start)

	logger.Info("validated graph",
		"edges", result.Stats.Edges,
		"unresolved", len(result.Unresolved),
		"diagnostics", result.Report.Count(),
		"duration", result.Stats.ValidateTime)

	return result, nil
}

// Extract returns the dependencies of mod, restored from the cache when
// possible. hit reports whether the cache served them.
func (r *Runner) Extract(ctx context.Context, mod manifest.Module, refresh bool) ([]dependency.Dependency, bool, error) {
	deps, info, err := r.extract(ctx, r.Logger, mod, refresh)
	return deps, info.Hits == 1, err
}

func (r *Runner) extract(ctx context.Context, logger *log.Logger, mod manifest.Module, refresh bool) ([]dependency.Dependency, CacheInfo, error) {
	var info CacheInfo
	sourceHash, err := SourceHash(mod)
	if err != nil {
		return nil, info, err
	}
	key := r.Keyer.DependenciesKey(mod.ID, sourceHash)

	if !refresh {
		deps, ok := r.restore(ctx, logger, mod.ID, key, &info)
		if ok {
			info.Hits++
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			logger.Debug("restored dependencies", "module", mod.ID, "count", len(deps))
			return deps, info, nil
		}
	}
	info.Misses++
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	deps, err := mod.BuildDependencies()
	if err != nil {
		return nil, info, err
	}
	r.persist(ctx, logger, mod.ID, key, deps)
	return deps, info, nil
}

// restore reads and decodes a cached stream. Entries that cannot be decoded
// are deleted so the next run does not hit them again.
func (r *Runner) restore(ctx context.Context, logger *log.Logger, module, key string, info *CacheInfo) ([]dependency.Dependency, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "module", module, "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}

	deps, err := dependency.ReadAll(r.Registry, data)
	if err == nil {
		return deps, true
	}

	code := errors.GetCode(err)
	logger.Warn("discarding cached dependencies", "module", module, "code", code, "error", errors.UserMessage(err))
	observability.Pipeline().OnDecodeFailure(ctx, module, string(code))
	info.Discarded++
	if err := r.Cache.Delete(ctx, key); err != nil {
		logger.Warn("cache delete failed", "module", module, "error", err)
	}
	return nil, false
}

func (r *Runner) persist(ctx context.Context, logger *log.Logger, module, key string, deps []dependency.Dependency) {
	data, err := dependency.WriteAll(r.Registry, deps)
	if err != nil {
		logger.Warn("not caching dependencies", "module", module, "error", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLDependencies
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "module", module, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// SourceHash fingerprints a module declaration. It changes whenever the
// module's type or any of its declared dependencies change.
func SourceHash(mod manifest.Module) (string, error) {
	data, err := toml.Marshal(mod)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash module %s", mod.ID)
	}
	return cache.Hash(data), nil
}

func loadManifest(opts Options) (*manifest.Manifest, error) {
	if len(opts.ManifestData) > 0 {
		return manifest.Parse(opts.ManifestData)
	}
	return manifest.Load(opts.ManifestPath)
}

func (c *CacheInfo) add(o CacheInfo) {
	c.Hits += o.Hits
	c.Misses += o.Misses
	c.Discarded += o.Discarded
}
