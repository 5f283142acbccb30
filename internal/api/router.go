package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/podwatch/internal/api/handler"
	"github.com/creamcroissant/podwatch/internal/api/middleware"
	"github.com/creamcroissant/podwatch/internal/hub"
	"github.com/creamcroissant/podwatch/internal/repository"
	"github.com/creamcroissant/podwatch/internal/snapshot"
)

// Options carry everything the router needs.
type Options struct {
	Hub          *hub.Hub
	Snapshots    *snapshot.Store
	Store        repository.Store
	Logger       *slog.Logger
	BootTime     time.Time
	Version      string
	ClientBuffer int
}

// NewRouter assembles the HTTP surface: health, websocket feed, metrics and
// the cached dashboard API.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.StructuredLogger(middleware.LoggingConfig{
		Logger:        opts.Logger,
		SlowThreshold: 500 * time.Millisecond,
		SkipPaths:     []string{"/health", "/healthz", "/metrics", "/ws"},
	}))
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	r.Use(chiMiddleware.Recoverer)

	health := handler.NewHealthHandler(opts.Hub, opts.Snapshots, opts.BootTime, opts.Version)
	r.Get("/", health.Get)
	r.Get("/health", health.Get)
	r.Get("/healthz", health.Get)

	r.Get("/ws", opts.Hub.ServeWS(opts.ClientBuffer))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if opts.Store != nil {
		nodes := handler.NewNodeHandler(opts.Store)
		activityH := handler.NewActivityHandler(opts.Store)
		r.Route("/api", func(r chi.Router) {
			r.Get("/nodes", nodes.List)
			r.Get("/nodes/{pubkey}", nodes.Get)
			r.Get("/activity", activityH.Recent)
		})
	}

	return r
}
