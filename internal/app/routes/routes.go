package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skykeen/events-backend/internal/app/controllers"
	"github.com/skykeen/events-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	registrationController *controllers.RegistrationController,
	authController *controllers.AuthController,
	authMiddleware *middleware.AuthMiddleware,
	uploadsPath string,
) {
	api := router.Group("/api")

	// --- Registration routes ---
	registrations := api.Group("/registrations")
	{
		// Public submission endpoint
		registrations.POST("/", registrationController.Create)

		// Admin-only read and verification routes
		registrationsProtected := registrations.Group("")
		registrationsProtected.Use(authMiddleware.SessionAuth())
		{
			registrationsProtected.GET("/", registrationController.List)
			registrationsProtected.GET("/:id/", registrationController.GetByID)

			registrationsCSRFProtected := registrationsProtected.Group("")
			registrationsCSRFProtected.Use(authMiddleware.CSRFRequired())
			{
				registrationsCSRFProtected.PATCH("/:id/verify/", registrationController.Verify)
			}
		}
	}

	// --- Admin session routes ---
	admin := api.Group("/admin")
	{
		admin.POST("/login/", authController.Login)
		admin.GET("/check/", authController.Check)

		adminProtected := admin.Group("")
		adminProtected.Use(authMiddleware.SessionAuth(), authMiddleware.CSRFRequired())
		{
			adminProtected.POST("/logout/", authController.Logout)
		}
	}

	// CSRF token issuance (public; binds to the session when one exists)
	api.GET("/csrf-token/", authController.CSRFToken)

	// Health check endpoint (public)
	api.GET("/health/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Uploaded blobs
	router.Static("/uploads", uploadsPath)
}
