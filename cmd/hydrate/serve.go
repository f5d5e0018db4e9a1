package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/hydrate"
	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the check service",
		Long: `Run an HTTP service that checks markup pairs.

  POST /v1/check   {"server": "...", "client": "...", "mode": "safety"}
  GET  /metrics    Prometheus metrics
  GET  /healthz    Liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			srv, err := newServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.run(ctx)
		},
	}

	addReconcileFlags(cmd)
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")

	return cmd
}

// server is the check service.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	opts     hydrate.Options
	registry *prometheus.Registry
	router   chi.Router
}

func newServer(cfg *config.Config, logger *slog.Logger) (*server, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	opts.Sink = hydrate.NewLogSink(logger)

	s := &server{
		cfg:    cfg,
		logger: logger,
		opts:   opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.opts.Metrics = hydrate.NewMetrics(
			hydrate.WithRegistry(s.registry),
			hydrate.WithNamespace(cfg.Metrics.Namespace),
		)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Post("/v1/check", s.handleCheck)

	s.router = r
	return s, nil
}

// Handler returns the service's HTTP handler.
func (s *server) Handler() http.Handler {
	return s.router
}

func (s *server) run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.Serve.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Serve.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("check service listening", "addr", s.cfg.Serve.Addr, "mode", s.opts.Mode.String())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// checkRequest is the body of POST /v1/check.
type checkRequest struct {
	Server   string `json:"server"`
	Client   string `json:"client"`
	Mode     string `json:"mode,omitempty"`
	Document bool   `json:"document,omitempty"`
}

func (s *server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if limit := s.cfg.Serve.MaxBodyBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, errors.New("E140").
			WithDetail("The request body is not a valid check request: "+err.Error()).
			Wrap(err))
		return
	}

	opts := s.opts
	if req.Mode != "" {
		mode, err := hydrate.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("E121").Wrap(err))
			return
		}
		opts.Mode = mode
	}

	parseOpts := s.cfg.ParseOptions()
	serverSide := hydrate.ServerFunc(func(context.Context) (*markup.Tree, error) {
		return parseMarkup([]byte(req.Server), req.Document, parseOpts)
	})
	clientSide := hydrate.ClientFunc(func(context.Context) (*vdom.VNode, error) {
		tree, err := parseMarkup([]byte(req.Client), req.Document, parseOpts)
		if err != nil {
			return nil, err
		}
		return tree.VNode(tree.Root()), nil
	})

	result, err := hydrate.Attempt(r.Context(), serverSide, clientSide, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, newReport(result, opts.Mode))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	var herr *errors.HydrateError
	if !stderrors.As(err, &herr) {
		herr = errors.FromError(err, "E140")
	}
	writeJSON(w, status, map[string]any{"error": herr})
}
