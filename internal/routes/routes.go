package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobconnect-server/internal/chat"
	"jobconnect-server/internal/config"
	"jobconnect-server/internal/handlers"
	"jobconnect-server/internal/middleware"
	"jobconnect-server/internal/models"
	"jobconnect-server/internal/ws"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, chatService *chat.Service, hub *ws.Hub) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	chatHandler := handlers.NewChatHandler(chatService, hub)

	// Real-time channel. Lives outside the JWT middleware: the principal is
	// whatever user id the client supplies at connect time, with a random
	// unlinkable identity as fallback (see ws.ServeWS).
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWS(hub, c)
	})

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Directory / user management
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/:id", userHandler.GetUserByID)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Candidate / company profile records (back the chat profile resolver)
		profileRoutes := private.Group("/profiles")
		{
			profileRoutes.POST("/candidate",
				middleware.RoleAuthMiddleware(models.RoleCandidate, models.RoleAdmin),
				profileHandler.UpsertCandidateProfile)
			profileRoutes.GET("/candidate/:userId", profileHandler.GetCandidateProfile)

			profileRoutes.POST("/company",
				middleware.RoleAuthMiddleware(models.RoleCompany, models.RoleAdmin),
				profileHandler.UpsertCompanyProfile)
			profileRoutes.GET("/company/:userId", profileHandler.GetCompanyProfile)
		}

		// Chat routes. The caller is always one endpoint of the exchange:
		// sender on send, receiver on mark-read.
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/messages", chatHandler.SendMessage)
			chatRoutes.GET("/messages/:userId", chatHandler.GetMessagesBetween)
			chatRoutes.GET("/conversations", chatHandler.GetConversations)
			chatRoutes.PUT("/mark-read/:senderId", chatHandler.MarkRead)
			chatRoutes.GET("/presence/:userId", chatHandler.GetPresence)
		}
	}
}
