// Package httpapi exposes the core services over a thin gin HTTP surface.
// Handlers validate transport concerns only; all domain rules live in the
// service layer.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/service"
)

// Config holds the HTTP server settings.
type Config struct {
	Listen         string
	Debug          bool
	AllowedOrigins []string
}

// Services bundles everything the handlers call into.
type Services struct {
	Users             service.UserService
	Assessments       service.AssessmentService
	Traits            service.TraitService
	Practices         service.PracticeService
	Plans             service.PlanService
	Sprints           service.SprintService
	PendingActions    service.PendingActionService
	PersonalPractices service.PersonalPracticeService
}

type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *slog.Logger
}

func NewServer(cfg Config, svcs Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{svcs: svcs}
	authed := engine.Group("/", authMatch())
	{
		authed.POST("/users/register", h.registerUser)

		authed.POST("/initial-questions/save-answers", h.saveInitialAnswers)
		authed.GET("/initial-questions/get-answers", h.getInitialAnswers)

		authed.GET("/traits/get-top-bottom-five", h.getTopBottomFive)
		authed.POST("/traits/save-strength-weakness", h.saveStrengthWeakness)
		authed.GET("/traits/get-chosen-traits", h.getChosenTraits)
		authed.POST("/traits/save-trait-questions-answers", h.saveTraitAnswers)
		authed.GET("/traits/get-trait-practices", h.getTraitPractices)
		authed.POST("/traits/save-strength-practice", h.saveChosenPractice(true))
		authed.POST("/traits/save-weakness-practice", h.saveChosenPractice(false))

		authed.GET("/sprints/current", h.getCurrentSprint)
		authed.POST("/sprints/finish-sprint", h.finishSprint)
		authed.GET("/sprints/progress-form-name", h.progressFormName)

		authed.GET("/development-plan/current", h.getCurrentPlan)
		authed.GET("/development-plan/colleague-schedule", h.colleagueSchedule)

		authed.POST("/actions/save-pending", h.savePendingActions)
		authed.GET("/actions/pending", h.listPendingActions)

		authed.POST("/personal-practices/save-category", h.savePersonalCategory)
		authed.GET("/personal-practices/category", h.getPersonalCategory)
		authed.POST("/personal-practices/save-chosen", h.saveChosenPersonal)
	}

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:         cfg.Listen,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	}
}
