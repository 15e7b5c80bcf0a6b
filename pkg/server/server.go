package server

import (
	"context"
	"io"
	"net/http"
	"time"

	pageshandler "github.com/de-tools/beat-sheets/pkg/handlers/pages"
	reporthandler "github.com/de-tools/beat-sheets/pkg/handlers/report"
	beatsmiddleware "github.com/de-tools/beat-sheets/pkg/server/middleware"
	"github.com/de-tools/beat-sheets/pkg/services/ratelimit"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports reporthandler.Renderer
	Pages   pageshandler.Renderer
	// Limiter is optional; nil disables rate limiting
	Limiter    ratelimit.Limiter
	RateWindow time.Duration
	Auth       beatsmiddleware.AuthSettings
	Registry   *prometheus.Registry
	Logger     zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:          router,
		logger:          &config.Dependencies.Logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ConfigureRouter wires health and metrics endpoints outside the auth gate
// and every page and report route behind it.
func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := beatsmiddleware.NewMetrics(registry)

	reports := reporthandler.NewHandler(deps.Reports)
	pages := pageshandler.NewHandler(deps.Pages)

	router := chi.NewRouter()
	router.Use(beatsmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	router.Group(func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(beatsmiddleware.RateLimit(deps.Limiter, deps.RateWindow, beatsmiddleware.ByClientIP))
		}
		r.Use(beatsmiddleware.Auth(deps.Auth))
		if deps.Limiter != nil {
			r.Use(beatsmiddleware.RateLimit(deps.Limiter, deps.RateWindow, beatsmiddleware.ByIdentity))
		}

		r.Get("/", pages.ActsOverview)
		r.Get("/beats", pages.AllBeats)
		r.Get("/acts/{actNo}", pages.ActListing)
		r.Get("/acts/{actNo}/beats/{beatNo}", pages.BeatDetail)

		r.Get("/reports/beats", reports.GetReport)
		for _, f := range report.Formats {
			r.Get("/reports/beats."+f.String(), reports.GetReportAs(f))
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/reports/beats", reports.GetReportJSON)
		})
	})

	return router
}

// Start serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
