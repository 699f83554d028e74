package ui

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"chartlab/adapters/stats"
	"chartlab/internal"
	"chartlab/internal/config"
	"chartlab/internal/pipeline"
	"chartlab/internal/store"
	"chartlab/ports"
)

// Server is the JSON API server. Record data lives in the store; the
// optional repository only persists metadata across restarts.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	store    *store.Store
	repo     ports.DatasetRepository // nil when persistence is disabled
	runner   *stats.Runner
	computer *pipeline.Computer
	logger   *internal.Logger
}

// NewServer wires the API server. repo may be nil.
func NewServer(cfg *config.Config, st *store.Store, repo ports.DatasetRepository, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:   gin.Default(),
		config:   cfg,
		store:    st,
		repo:     repo,
		runner:   stats.NewRunner(),
		computer: pipeline.NewComputer(4),
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures CORS from the allowed origins list
func (s *Server) setupMiddleware() {
	allowed := make(map[string]bool, len(s.config.Server.AllowedOrigins))
	for _, origin := range s.config.Server.AllowedOrigins {
		allowed[origin] = true
	}

	s.router.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)

	s.router.POST("/api/datasets/upload", s.handleUpload)
	s.router.POST("/api/datasets/synthetic", s.handleGenerateSynthetic)
	s.router.GET("/api/datasets", s.handleListDatasets)
	s.router.GET("/api/datasets/:id", s.handleGetDataset)
	s.router.GET("/api/datasets/:id/fields", s.handleGetFields)
	s.router.DELETE("/api/datasets/:id", s.handleDeleteDataset)

	s.router.GET("/api/sample-data", s.handleListSamples)
	s.router.POST("/api/sample-data/:name", s.handleLoadSample)

	s.router.POST("/api/datasets/:id/charts", s.handleChart)
	s.router.POST("/api/datasets/:id/charts/batch", s.handleChartBatch)

	s.router.GET("/api/datasets/:id/summary", s.handleSummary)
	s.router.GET("/api/datasets/:id/summary/:field", s.handleFieldSummary)

	s.router.POST("/api/datasets/:id/tests/:test", s.handleStatTest)
	s.router.POST("/api/datasets/:id/regression/linear", s.handleRegression)
	s.router.POST("/api/datasets/:id/regression/logistic", s.handleLogisticRegression)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Server.Port)
	s.logger.Info("Starting chartlab API on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth reports liveness and how many datasets are loaded
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"datasets": s.store.Len(),
	})
}
