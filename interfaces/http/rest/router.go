// Package rest wires the chi router over the session manager.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mindmap-backend/interfaces/http/rest/handlers"
	"mindmap-backend/interfaces/http/rest/middleware"
	"mindmap-backend/internal/observability"
	"mindmap-backend/internal/session"
)

// Router creates and configures the HTTP router.
type Router struct {
	manager        *session.Manager
	metrics        *observability.Collector
	logger         *zap.Logger
	allowedOrigins []string
}

// NewRouter creates a router over the session manager.
func NewRouter(manager *session.Manager, metrics *observability.Collector, logger *zap.Logger, allowedOrigins []string) *Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Router{manager: manager, metrics: metrics, logger: logger, allowedOrigins: allowedOrigins}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method("GET", "/metrics", promhttp.HandlerFor(rt.metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		mapHandler := handlers.NewMapHandler(rt.manager, rt.logger)
		r.Post("/maps", mapHandler.Generate)
		r.Post("/maps/example", mapHandler.LoadExample)
		r.Route("/map", func(r chi.Router) {
			r.Get("/", mapHandler.Get)
			r.Get("/context", mapHandler.Context)
			r.Post("/merge", mapHandler.Merge)
			r.Post("/expand", mapHandler.Expand)
			r.Post("/descriptions", mapHandler.AddDescriptions)
		})

		nodeHandler := handlers.NewNodeHandler(rt.manager, rt.logger)
		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Get("/", nodeHandler.Get)
			r.Post("/elaborate", nodeHandler.Elaborate)
			r.Post("/examples", nodeHandler.Examples)
			r.Post("/pros", nodeHandler.Pros)
			r.Post("/cons", nodeHandler.Cons)
			r.Post("/explain", nodeHandler.Explain)
			r.Post("/enhance-description", nodeHandler.EnhanceDescription)
			r.Post("/freeze", nodeHandler.Freeze)
		})

		chatHandler := handlers.NewChatHandler(rt.manager, rt.logger)
		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler.Ask)
			r.Get("/history", chatHandler.History)
			r.Post("/add-node", chatHandler.AddNode)
		})

		layoutHandler := handlers.NewLayoutHandler(rt.manager, rt.logger)
		r.Route("/layout", func(r chi.Router) {
			r.Get("/config", layoutHandler.GetConfig)
			r.Put("/config", layoutHandler.SetConfig)
			r.Post("/physics", layoutHandler.SetPhysics)
			r.Post("/stabilized", layoutHandler.Stabilized)
			r.Post("/click/{nodeID}", layoutHandler.Click)
			r.Post("/connection-mode", layoutHandler.SetConnectionMode)
		})
		r.Post("/connections", layoutHandler.Connect)

		exportHandler := handlers.NewExportHandler(rt.manager, rt.logger)
		r.Route("/export", func(r chi.Router) {
			r.Get("/flashcards", exportHandler.Flashcards)
			r.Get("/obsidian", exportHandler.Obsidian)
			r.Get("/converted-text", exportHandler.ConvertedText)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
