package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recordingPipeline struct {
	NoopPipelineHooks
	started []string
}

func (r *recordingPipeline) OnRunStart(_ context.Context, runID string, _ int) {
	r.started = append(r.started, runID)
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRunStart(ctx, "run", 3)
	p.OnRunComplete(ctx, "run", 1, time.Second, nil)
	p.OnDecodeFailure(ctx, "a.wasm", "UNKNOWN_KIND")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "deps")
	c.OnCacheMiss(ctx, "deps")
	c.OnCacheSet(ctx, "deps", 1024)

	NoopHTTPHooks{}.OnResponse(ctx, "GET", "/kinds", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	rec := &recordingPipeline{}
	SetPipelineHooks(rec)
	Pipeline().OnRunStart(context.Background(), "r1", 1)
	if len(rec.started) != 1 || rec.started[0] != "r1" {
		t.Errorf("started = %v, want [r1]", rec.started)
	}

	SetPipelineHooks(nil)
	if Pipeline() != rec {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	ctx := context.Background()

	h.OnRunComplete(ctx, "r1", 2, time.Second, nil)
	h.OnRunComplete(ctx, "r2", 0, time.Second, errors.New("boom"))
	h.OnDecodeFailure(ctx, "a.wasm", "UNKNOWN_KIND")
	h.OnCacheHit(ctx, "deps")
	h.OnCacheMiss(ctx, "deps")
	h.OnCacheMiss(ctx, "deps")
	h.OnCacheSet(ctx, "deps", 100)
	h.OnResponse(ctx, "POST", "/check", 200, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"runs ok", testutil.ToFloat64(h.runs.WithLabelValues("ok")), 1},
		{"runs error", testutil.ToFloat64(h.runs.WithLabelValues("error")), 1},
		{"diagnostics", testutil.ToFloat64(h.diagnostics), 2},
		{"decode failures", testutil.ToFloat64(h.decodeFailures.WithLabelValues("UNKNOWN_KIND")), 1},
		{"cache hits", testutil.ToFloat64(h.cacheOps.WithLabelValues("deps", "hit")), 1},
		{"cache misses", testutil.ToFloat64(h.cacheOps.WithLabelValues("deps", "miss")), 2},
		{"cache bytes", testutil.ToFloat64(h.cacheBytes), 100},
		{"http requests", testutil.ToFloat64(h.httpRequests.WithLabelValues("POST", "/check", "200")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}
