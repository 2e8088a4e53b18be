package http

import (
	"net/http"

	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	authHandler        *handler.AuthHandler
	profileHandler     *handler.ProfileHandler
	matchHandler       *handler.MatchHandler
	adminHandler       *handler.AdminHandler
	appointmentHandler *handler.AppointmentHandler
	messageHandler     *handler.MessageHandler
	authMiddleware     *middleware.AuthMiddleware
	logger             *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	matchHandler *handler.MatchHandler,
	adminHandler *handler.AdminHandler,
	appointmentHandler *handler.AppointmentHandler,
	messageHandler *handler.MessageHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:        authHandler,
		profileHandler:     profileHandler,
		matchHandler:       matchHandler,
		adminHandler:       adminHandler,
		appointmentHandler: appointmentHandler,
		messageHandler:     messageHandler,
		authMiddleware:     authMiddleware,
		logger:             logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(r.logger),
		middleware.RequestLogger(r.logger),
		middleware.Metrics(),
	)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			seeker := protected.Group("/seeker", r.authMiddleware.RequireRole(domain.RoleSeeker))
			{
				seeker.GET("/preferences", r.profileHandler.GetPreferences)
				seeker.PUT("/preferences", r.profileHandler.UpdatePreferences)
				seeker.GET("/matches", r.matchHandler.GetMatches)
				seeker.GET("/matches/:helper_id/explanation", r.matchHandler.GetExplanation)
			}

			helper := protected.Group("/helper", r.authMiddleware.RequireRole(domain.RoleHelper))
			{
				helper.GET("/profile", r.profileHandler.GetHelperProfile)
				helper.PUT("/profile", r.profileHandler.UpdateHelperProfile)
				helper.GET("/pending-matches", r.profileHandler.GetPendingMatches)
			}

			admin := protected.Group("/admin", r.authMiddleware.RequireRole(domain.RoleAdmin))
			{
				admin.GET("/helpers", r.adminHandler.ListHelpers)
				admin.PUT("/helpers/:helper_id/verification", r.adminHandler.SetVerification)
			}

			appointments := protected.Group("/appointments")
			{
				appointments.GET("", r.appointmentHandler.List)
				appointments.PATCH("/:id", r.appointmentHandler.Update)
				appointments.POST("/helpers/:helper_id",
					r.authMiddleware.RequireRole(domain.RoleSeeker),
					r.appointmentHandler.Create,
				)
				appointments.GET("/helpers/:helper_id/availability", r.appointmentHandler.Availability)
			}

			messages := protected.Group("/messages")
			{
				messages.POST("", r.messageHandler.Send)
				messages.GET("/conversations", r.messageHandler.Conversations)
				messages.GET("/unread-count", r.messageHandler.UnreadCount)
				messages.GET("/:user_id", r.messageHandler.Conversation)
			}
		}
	}

	return router
}
