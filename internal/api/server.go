package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"datalayer/internal/api/handlers"
	"datalayer/internal/api/middleware"
	"datalayer/internal/config"
	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/sink"
	"datalayer/internal/triggers"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

// New wires the event routes. events may be nil when Kafka is not configured.
func New(cfg *config.Config, logger *logger.Logger, dispatcher *triggers.Dispatcher, markers dedup.KeyValueStore, events *sink.Kafka) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	eventHandler := handlers.NewEventHandler(cfg, logger, dispatcher, markers, events)

	router.GET("/healthz", handlers.Health)

	// Routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(cfg.SessionCookie, cfg.SessionTTL, cfg.Env == "production"))
	{
		evts := v1.Group("/events")
		{
			evts.POST("/page-view", eventHandler.Handle(triggers.PageRender))
			evts.POST("/view-item", eventHandler.Handle(triggers.ProductView))
			evts.POST("/add-to-cart", eventHandler.Handle(triggers.AddToCart))
			evts.POST("/initiate-checkout", eventHandler.Handle(triggers.CheckoutView))
			evts.POST("/purchase", eventHandler.Handle(triggers.OrderComplete))
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}
