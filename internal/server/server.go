package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gravadigital/campus-events-api/internal/auth"
	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/handlers"
	"github.com/gravadigital/campus-events-api/internal/logger"
	authmw "github.com/gravadigital/campus-events-api/internal/middleware/auth"
	"github.com/gravadigital/campus-events-api/internal/middleware/requestlog"
	"github.com/gravadigital/campus-events-api/internal/services"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      repository.Store
	services   *services.Services
	verifier   *auth.Verifier
}

// New creates a new server instance
func New(cfg *config.Config, store repository.Store, svc *services.Services, verifier *auth.Verifier) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		services: svc,
		verifier: verifier,
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()
	router.Use(requestlog.New())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.setupAPIRoutes(router)

	return router
}

func (s *Server) ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Health(ctx); err != nil {
		logger.HTTP().Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Campus Events API is degraded",
			"status":  "unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Campus Events API is running",
		"status":  "healthy",
	})
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	profileHandler := handlers.NewProfileHandler(s.services.Profiles)
	eventHandler := handlers.NewEventHandler(s.services.Events)
	participationHandler := handlers.NewParticipationHandler(s.services.Registration, s.services.Attendance)
	certificateHandler := handlers.NewCertificateHandler(s.services.Certification)

	authenticated := authmw.Authenticate(s.verifier)
	withProfile := authmw.RequireProfile(s.store.Profiles())

	api := router.Group("/api")
	{
		// Signup provisioning is the only route reachable without a profile
		api.POST("/auth/profile", authenticated, profileHandler.Provision)

		events := api.Group("/events")
		{
			events.GET("", eventHandler.ListOpen)
			events.GET("/:event_id", eventHandler.Get)
			events.POST("/:event_id/register", authenticated, withProfile, participationHandler.Register)
			events.POST("/:event_id/checkin", authenticated, withProfile, participationHandler.SelfCheckIn)
		}

		me := api.Group("/me", authenticated, withProfile)
		{
			me.GET("/profile", profileHandler.GetMe)
			me.PUT("/profile", profileHandler.UpdateMe)
			me.GET("/participations", profileHandler.Dashboard)
			me.GET("/certificates", certificateHandler.List)
			me.GET("/certificates/:participation_id/pdf", certificateHandler.Download)
		}

		organizer := api.Group("/organizer", authenticated, withProfile,
			authmw.RequireRole(profile.RoleOrganizer, profile.RoleAdmin))
		{
			organizer.POST("/events", eventHandler.Create)
			organizer.GET("/events", eventHandler.ListMine)
			organizer.GET("/events/:event_id/participants", eventHandler.Participants)
			organizer.PATCH("/events/:event_id/stage", eventHandler.UpdateStage)
			organizer.POST("/events/:event_id/banner", eventHandler.UploadBanner)
			organizer.GET("/events/:event_id/checkin-qr", eventHandler.CheckInQR)
			organizer.POST("/events/:event_id/attendance", participationHandler.OrganizerCheckIn)
			organizer.POST("/events/:event_id/participants/:student_id/advance", participationHandler.Advance)
		}
	}
}
