package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundledeps/pkg/buildinfo"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/observability"
	"github.com/matzehuels/bundledeps/pkg/pipeline"
)

// maxManifestSize bounds POST /check request bodies.
const maxManifestSize = 1 << 20

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency checks over HTTP",
		Long: `Serve starts an HTTP server exposing the check pipeline:

  GET  /healthz   liveness probe
  GET  /metrics   Prometheus metrics
  GET  /kinds     registered dependency kinds
  POST /check     check a TOML manifest sent as the request body
                  (query: runtime=a,b  refresh=true)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.serve(cmd.Context(), addr, c.newRouter(runner))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the dependency cache")
	return cmd
}

// serve runs handler on addr until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("server listening", "addr", addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// newRouter builds the HTTP routes around runner.
func (c *CLI) newRouter(runner *pipeline.Runner) http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c.Metrics != nil {
		gatherer = c.Metrics
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observeResponses)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/kinds", func(w http.ResponseWriter, r *http.Request) {
		kinds, err := c.registeredKinds()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, kinds)
	})
	r.Post("/check", func(w http.ResponseWriter, r *http.Request) {
		c.handleCheck(w, r, runner)
	})

	return r
}

// observeResponses reports every response to the HTTP hooks, labelled by
// route pattern rather than raw path.
func observeResponses(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// checkResponse is the JSON body of POST /check.
type checkResponse struct {
	RunID        string              `json:"run_id"`
	Manifest     string              `json:"manifest"`
	Modules      int                 `json:"modules"`
	Dependencies int                 `json:"dependencies"`
	Edges        int                 `json:"edges"`
	Runtime      []string            `json:"runtime"`
	OK           bool                `json:"ok"`
	Diagnostics  []diagnosticView    `json:"diagnostics"`
	Unresolved   []unresolvedView    `json:"unresolved"`
	Usage        map[string][]string `json:"usage"`
	Cache        pipeline.CacheInfo  `json:"cache"`
	Timings      map[string]string   `json:"timings"`
}

type diagnosticView struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Module   string `json:"module"`
	Type     string `json:"type"`
	Request  string `json:"request"`
	Location string `json:"location,omitempty"`
}

type unresolvedView struct {
	Module  string `json:"module"`
	Type    string `json:"type"`
	Request string `json:"request"`
}

func (c *CLI) handleCheck(w http.ResponseWriter, r *http.Request, runner *pipeline.Runner) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManifestSize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read manifest"))
		return
	}

	// Unset options fall back to the [check] config section, like the CLI.
	opts := pipeline.Options{
		ManifestData: data,
		Runtime:      c.Config.Check.Runtime,
		Workers:      c.Config.Check.Workers,
		Logger:       c.Logger,
	}
	if rt := r.URL.Query().Get("runtime"); rt != "" {
		opts.Runtime = strings.Split(rt, ",")
	}
	if v := r.URL.Query().Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v))
			return
		}
		opts.Refresh = refresh
	}

	res, err := runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(res))
}

func newCheckResponse(res *pipeline.Result) checkResponse {
	out := checkResponse{
		RunID:        res.RunID,
		Manifest:     res.Manifest.Name,
		Modules:      res.Stats.Modules,
		Dependencies: res.Stats.Dependencies,
		Edges:        res.Stats.Edges,
		Runtime:      res.Runtime,
		OK:           res.Report.OK(),
		Diagnostics:  []diagnosticView{},
		Unresolved:   []unresolvedView{},
		Usage:        make(map[string][]string, len(res.Usage)),
		Cache:        res.CacheInfo,
		Timings: map[string]string{
			"extract":  res.Stats.ExtractTime.String(),
			"validate": res.Stats.ValidateTime.String(),
			"total":    res.Stats.TotalTime.String(),
		},
	}

	for _, m := range res.Report.Modules {
		for _, d := range m.Diagnostics {
			v := diagnosticView{Name: d.Name, Message: d.Message, Module: m.Module}
			if d.Dependency != nil {
				v.Type = d.Dependency.Type()
				v.Request = d.Dependency.Request()
			}
			if !d.Loc.IsZero() {
				v.Location = d.Loc.String()
			}
			out.Diagnostics = append(out.Diagnostics, v)
		}
	}
	for _, dep := range res.Unresolved {
		v := unresolvedView{Type: dep.Type(), Request: dep.Request()}
		if m, ok := res.Graph.Origin(dep); ok {
			v.Module = m.Identifier()
		}
		out.Unresolved = append(out.Unresolved, v)
	}
	for id, u := range res.Usage {
		out.Usage[id] = u.Names()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses. Input problems are 400,
// everything else is 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidIdentifier,
		errors.ErrCodeInvalidFormat, errors.ErrCodeFileNotFound:
		status = http.StatusBadRequest
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"code": string(code), "error": errors.UserMessage(err)})
}
