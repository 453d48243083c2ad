package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/http/handlers"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	// Handlers
	HealthHandler    *handlers.HealthHandler
	StructureHandler *handlers.StructureHandler
	BatchHandler     *handlers.BatchHandler
	HistoryHandler   *handlers.HistoryHandler

	// EditorHandler serves the editor message protocol over a websocket.
	EditorHandler http.Handler

	// Middleware
	CORS      *middleware.CORSConfig
	Logging   *middleware.LoggingConfig
	RateLimit *middleware.RateLimitConfig
	Limiter   middleware.RateLimiter

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.EchoRequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, *cfg.Logging))
	}
	if cfg.RateLimit != nil && cfg.Limiter != nil {
		r.Use(middleware.RateLimit(cfg.Limiter, *cfg.RateLimit))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/markup/normalize", handlers.NormalizeMarkup(cfg.Logger))
		registerStructureRoutes(api, cfg.StructureHandler)
		registerBatchRoutes(api, cfg.BatchHandler)
		registerHistoryRoutes(api, cfg.HistoryHandler)
		if cfg.EditorHandler != nil {
			api.Handle("/editor/ws", cfg.EditorHandler)
		}
	})

	return r
}

func registerStructureRoutes(r chi.Router, h *handlers.StructureHandler) {
	if h == nil {
		return
	}
	r.Post("/validate", h.Validate)
	r.Route("/structures", func(sr chi.Router) {
		sr.Post("/", h.Load)
		sr.Post("/evaluate", h.Evaluate)
		sr.Post("/predict", h.Predict)
		sr.Post("/preview", h.Preview)
		sr.Post("/report", h.Report)
	})
}

func registerBatchRoutes(r chi.Router, h *handlers.BatchHandler) {
	if h == nil {
		return
	}
	r.Route("/batch", func(br chi.Router) {
		br.Post("/", h.Run)
		br.Get("/last", h.Last)
		br.Get("/last/summary", h.Summary)
	})
}

func registerHistoryRoutes(r chi.Router, h *handlers.HistoryHandler) {
	if h == nil {
		return
	}
	r.Get("/history", h.List)
	r.Delete("/history", h.Clear)
}

//Personal.AI order the ending
