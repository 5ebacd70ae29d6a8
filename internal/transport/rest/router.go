package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"promptscore/internal/config"
	"promptscore/internal/service"
	"promptscore/internal/transport/rest/handler"
	"promptscore/internal/transport/rest/middleware"
	"promptscore/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Pipeline    *service.Pipeline
	AuthService *service.AuthService
	Gatherer    prometheus.Gatherer
	Server      config.ServerConfig
	Logger      *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := c.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	analyzeHandler := handler.NewAnalyzeHandler(c.Pipeline, c.Pipeline.Gate())
	wsHandler := ws.NewHandler(c.Pipeline, c.AuthService, logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.CORS(c.Server))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (bearer header or token query param when auth is on)
	v1.HandleFunc("/ws/analyze", wsHandler.AnalyzeWS).Methods("GET")

	// Client routes (require a token when auth is on)
	clientRoutes := v1.NewRoute().Subrouter()
	clientRoutes.Use(authMW.RequireClient)

	clientRoutes.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/validate", analyzeHandler.Validate).Methods("POST", "OPTIONS")

	// Unversioned path kept for the bundled web front-end
	legacy := r.NewRoute().Subrouter()
	legacy.Use(authMW.RequireClient)
	legacy.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST", "OPTIONS")

	return r
}
