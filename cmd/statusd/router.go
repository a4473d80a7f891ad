package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/statuskit/config"
	"github.com/jonwraymond/statuskit/observe"
	"github.com/jonwraymond/statuskit/probes"
	"github.com/jonwraymond/statuskit/status"
)

// newRouter wires the registry, engine and status handler behind a chi
// router that also serves /healthz and, with the prometheus exporter,
// /metrics.
func newRouter(ctx context.Context, cfg config.Config, obs observe.Observer) (chi.Router, error) {
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}

	reg := status.NewRegistry()
	targets := cfg.Targets()
	if cfg.CollectorTimeout > 0 {
		targets.Options = append(targets.Options, status.WithTimeout(cfg.CollectorTimeout))
	}
	if err := probes.Register(reg, targets); err != nil {
		return nil, err
	}
	obs.Logger().Info(ctx, "collectors registered", observe.Field{Key: "collectors", Value: reg.Names()})

	eng := status.NewEngine(status.EngineConfig{
		MaxConcurrency: cfg.MaxConcurrency,
		Middleware:     mw,
	})
	handler := status.NewHandler(reg, eng, status.HandlerConfig{
		BasePath:      cfg.BasePath,
		Timeout:       cfg.RequestTimeout,
		CORS:          cfg.CORS,
		Authenticator: cfg.Authenticator(),
		Logger:        obs.Logger(),
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.MetricsExporter == "prometheus" {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Mount("/", handler)

	return r, nil
}
