// Package server exposes calculations, sensitivity analysis and report
// downloads over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/bitscopic/roi-calculator/internal/config"
	"github.com/bitscopic/roi-calculator/internal/monitoring"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
)

// Server routes API requests to a pipeline.Generator.
type Server struct {
	gen      *pipeline.Generator
	metrics  *monitoring.Collector
	alerter  *monitoring.Alerter
	cfg      config.ServerConfig
	study    bool
	started  time.Time
	maxBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithStudy includes the reference study in PraediAlert reports.
func WithStudy(on bool) Option {
	return func(s *Server) { s.study = on }
}

// WithAlerter sets the alerter that decides /health status.
func WithAlerter(a *monitoring.Alerter) Option {
	return func(s *Server) { s.alerter = a }
}

// New creates a Server. metrics should be the generator's observer so
// /health and /metrics reflect generations.
func New(gen *pipeline.Generator, metrics *monitoring.Collector, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		gen:     gen,
		metrics: metrics,
		alerter: monitoring.NewAlerter(0),
		cfg:     cfg,
		started: time.Now(),
	}
	s.maxBytes = int64(cfg.MaxUploadMB) << 20
	if s.maxBytes <= 0 {
		s.maxBytes = 10 << 20
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimitRPS > 0 {
			burst := s.cfg.RateLimitBurst
			if burst < 1 {
				burst = 1
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimitRPS), burst)))
		}
		r.Use(middleware.RequestSize(s.maxBytes))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/defaults/{product}/{tier}", s.defaults)
		r.Post("/calculate", s.calculate)
		r.Post("/sensitivity", s.sensitivity)
		r.Post("/report", s.report)
		r.Post("/uploads/validate", s.validateUpload)
	})

	return r
}

type healthResponse struct {
	Status        string                      `json:"status"`
	UptimeSeconds int64                       `json:"uptime_seconds"`
	Generations   *monitoring.MetricsSnapshot `json:"generations"`
	Alerts        []monitoring.Alert          `json:"alerts,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	snap := s.metrics.Snapshot()
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Generations:   snap,
		Alerts:        s.alerter.Evaluate(snap),
	}
	if len(resp.Alerts) > 0 {
		resp.Status = "degraded"
	}
	render.JSON(w, r, resp)
}
