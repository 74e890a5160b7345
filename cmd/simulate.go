package cmd

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"aria/config"
	"aria/handlers"
	"aria/middleware"
	"aria/services"
	"aria/websocket"
)

// NewRouter wires the simulator's services and routes into a gin engine.
// Split out from StartSimulator so integration tests can mount it on an
// in-process test server.
func NewRouter(cfg *config.Config) (*gin.Engine, services.Pipeline) {
	hub := websocket.NewHub()
	go hub.Run()

	fileService := services.NewFileService(cfg.Simulator.LibraryDir)

	pipeline := services.NewPipeline(services.PipelineOptions{
		Workers:     2,
		Duration:    time.Duration(cfg.Simulator.GenerationSeconds) * time.Second,
		FailureRate: cfg.Simulator.FailureRate,
		PublicURL:   cfg.Server.URL,
	}, hub, fileService)
	pipeline.Start()

	generateHandler := handlers.NewGenerateHandler(pipeline)
	eventHandler := handlers.NewEventHandler(hub)
	fileHandler := handlers.NewFileHandler(fileService, cfg.Simulator.LibraryDir)
	healthHandler := handlers.NewHealthHandler()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())

	setupRoutes(r, generateHandler, eventHandler, fileHandler, healthHandler)

	return r, pipeline
}

// StartSimulator starts the generation service simulator
func StartSimulator(cfg *config.Config) {
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r, _ := NewRouter(cfg)

	log.Printf("Aria simulator starting on port %s", cfg.Simulator.Port)
	if err := r.Run(":" + cfg.Simulator.Port); err != nil {
		log.Fatalf("Failed to start simulator: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, generateHandler *handlers.GenerateHandler, eventHandler *handlers.EventHandler, fileHandler *handlers.FileHandler, healthHandler *handlers.HealthHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		// Generation endpoints
		apiGroup.POST("/generate", generateHandler.Generate)
		apiGroup.GET("/generations", generateHandler.ListGenerations)
		apiGroup.GET("/generations/:id", generateHandler.GetGeneration)

		// WebSocket endpoint for real-time generation events
		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/events", eventHandler.Events)
		}

		// Library discovery and streaming endpoints
		apiGroup.GET("/files", fileHandler.ListFiles)
		apiGroup.GET("/files/stream/*filepath", fileHandler.StreamFile)
	}
}
