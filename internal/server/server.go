// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"permitcheck/internal/common/config"
	"permitcheck/internal/common/logger"
	"permitcheck/internal/models"
)

// ZoningResolver resolves a location to zoning info. It never fails; lookup
// problems degrade to the default rule set.
type ZoningResolver interface {
	Resolve(ctx context.Context, address, parcelID string) models.ZoningInfo
}

// AIService is the model-backed analysis surface.
type AIService interface {
	AnalyzeFeasibility(ctx context.Context, project models.ProjectData, zoning models.ZoningInfo) (*models.FeasibilityResults, error)
	GenerateNarrative(ctx context.Context, project models.ProjectData) (*models.NarrativeResults, error)
	ReviewPermitApplication(ctx context.Context, documentText string, project models.ProjectData) (*models.ReviewResults, error)
	GenerateVisual(ctx context.Context, request models.VisualRequest) *models.VisualResults
}

// DocumentExtractor pulls plain text out of an uploaded file.
type DocumentExtractor interface {
	ExtractText(path string) (string, error)
}

// DocumentExporter renders a result bundle into a downloadable file.
type DocumentExporter interface {
	CreateDocument(bundle models.ExportBundle, exportType string) (string, error)
}

// Server wires the HTTP surface to the domain services.
type Server struct {
	config    *config.Config
	logger    logger.Logger
	engine    *gin.Engine
	http      *http.Server
	zoning    ZoningResolver
	ai        AIService
	documents DocumentExtractor
	exports   DocumentExporter
}

func New(cfg *config.Config, log logger.Logger, zoning ZoningResolver, ai AIService, documents DocumentExtractor, exports DocumentExporter) *Server {
	s := &Server{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		zoning:    zoning,
		ai:        ai,
		documents: documents,
		exports:   exports,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	if s.config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		RequestID(),
		RequestLogger(s.logger),
		Recovery(s.logger),
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"*"},
			AllowCredentials: true,
		}),
	)

	engine.GET("/", s.handleRoot)
	engine.GET("/api/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		api.POST("/feasibility-check", s.handleFeasibilityCheck)
		api.POST("/generate-narrative", s.handleGenerateNarrative)
		api.POST("/review-permit", s.handleReviewPermit)
		api.POST("/generate-visual", s.handleGenerateVisual)
		api.POST("/export-document", s.handleExportDocument)
	}

	return engine
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.config.Server.Addr(),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.logger.Info("HTTP server starting", map[string]interface{}{
		"addr": s.http.Addr,
	})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down", nil)
	return s.http.Shutdown(ctx)
}
