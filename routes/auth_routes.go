package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/controllers"
	"github.com/roadrover06/MAD-MACEDAI/middleware"
)

// RegisterAuthRoutes sets up public signup/login and the protected
// session endpoints.
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Database) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)

	session := e.Group("/api/auth")
	session.Use(middleware.JWTMiddleware())
	session.POST("/logout", authController.Logout)
	session.GET("/profile", authController.GetProfile)
}
