package httpserver

import (
	"net/http"

	"github.com/yndnr/respkv/internal/server/httpserver/handler"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics is exposed on /metrics. Nil leaves the route unregistered.
	Metrics *metric.Registry

	// Ready reports whether the RESP listeners are serving. Nil means always ready.
	Ready func() error

	// Logger for request logging.
	Logger logger.Logger

	// AccessLog logs every request at info level.
	AccessLog bool
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(handler.Config{
		Ready:  cfg.Ready,
		Logger: log,
	})

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	mux.Handle("GET /ready", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Order: Recover -> RequestID -> AccessLog -> mux
	middlewares := []Middleware{Recover(log), RequestID()}
	if cfg.AccessLog {
		middlewares = append(middlewares, AccessLog(log))
	}

	return Chain(mux, middlewares...)
}
