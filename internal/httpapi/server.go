// internal/httpapi/server.go
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/common/observability"
	"sbdc-assessment/internal/common/validation"
	buildreport "sbdc-assessment/internal/services/reporting/build-report"
	renderpdf "sbdc-assessment/internal/services/reporting/render-pdf"
	calculatescores "sbdc-assessment/internal/services/scoring/calculate-scores"
	generaterecommendations "sbdc-assessment/internal/services/scoring/generate-recommendations"
	"sbdc-assessment/pkg/questionnaire"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthMessage = "SBDC Assessment API is running"

// Services are the handlers behind the routes.
type Services struct {
	Store       *questionnaire.Store
	Scorer      *calculatescores.Handler
	Recommender *generaterecommendations.Handler
	Formatter   *buildreport.Handler
	Renderer    *renderpdf.Handler
	// Ready reports whether optional backends are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

func (s Services) validate() error {
	switch {
	case s.Store == nil:
		return fmt.Errorf("httpapi: questionnaire store is required")
	case s.Scorer == nil:
		return fmt.Errorf("httpapi: scoring handler is required")
	case s.Recommender == nil:
		return fmt.Errorf("httpapi: recommendation handler is required")
	case s.Formatter == nil:
		return fmt.Errorf("httpapi: report formatter is required")
	case s.Renderer == nil:
		return fmt.Errorf("httpapi: pdf renderer is required")
	}
	return nil
}

type Server struct {
	e      *echo.Echo
	cfg    config.ServerConfig
	svc    Services
	obs    *observability.Observability
	logger logger.Logger

	assessSchema *validation.Validator
	exportSchema *validation.Validator
}

// New wires middleware and routes. obs may be nil.
func New(cfg config.ServerConfig, svc Services, obs *observability.Observability, log logger.Logger) (*Server, error) {
	if err := svc.validate(); err != nil {
		return nil, err
	}
	assessSchema, err := validation.ForSchema(validation.SchemaAssessRequest)
	if err != nil {
		return nil, err
	}
	exportSchema, err := validation.ForSchema(validation.SchemaExportRequest)
	if err != nil {
		return nil, err
	}

	s := &Server{
		e:            echo.New(),
		cfg:          cfg,
		svc:          svc,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "httpapi"}),
		assessSchema: assessSchema,
		exportSchema: exportSchema,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Server.ReadTimeout = config.GetDuration(cfg.ReadTimeout)
	s.e.Server.WriteTimeout = config.GetDuration(cfg.WriteTimeout)

	// A caller-selected catalyst with no usable entry is the caller's problem.
	errHandler := errors.NewErrorHandler(s.logger).
		OverrideStatus("/assess", errors.ErrCodeConfiguration, http.StatusBadRequest)
	s.e.HTTPErrorHandler = errHandler.Handle

	s.registerMiddleware()
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerMiddleware() {
	s.e.Use(s.metricsMiddleware())
	s.e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.e.Use(s.requestLogger())
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	if s.cfg.MaxBodyBytes != "" {
		s.e.Use(middleware.BodyLimit(s.cfg.MaxBodyBytes))
	}
}

func (s *Server) registerRoutes() {
	s.e.GET("/questions", s.handleQuestions)
	s.e.GET("/tone-options", s.handleToneOptions)
	s.e.POST("/assess", s.handleAssess)
	s.e.POST("/export-pdf", s.handleExportPDF)

	s.e.GET("/health", s.handleHealth)
	s.e.GET("/ready", s.handleReady)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.cfg.StaticDir != "" {
		s.e.Static("/", s.cfg.StaticDir)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.e }

// Start blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", map[string]interface{}{"address": addr})
	if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
