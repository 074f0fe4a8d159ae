package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/controllers"
	"github.com/roadrover06/MAD-MACEDAI/middleware"
	"github.com/roadrover06/MAD-MACEDAI/websocket"
)

// RegisterPOSRoutes sets up all protected point-of-sale routes.
func RegisterPOSRoutes(e *echo.Echo, db *mongo.Database, cache *redis.Client, hub *websocket.Hub) {
	paymentController := controllers.NewPaymentController(db, cache, hub)
	catalogController := controllers.NewCatalogController(db, cache)
	employeeController := controllers.NewEmployeeController(db)
	loyaltyController := controllers.NewLoyaltyController(db)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Service catalog routes
	r.GET("/services", catalogController.GetServices)
	r.POST("/services", catalogController.CreateService, middleware.RequireRole("admin"))
	r.PUT("/services/:id", catalogController.UpdateService, middleware.RequireRole("admin"))
	r.DELETE("/services/:id", catalogController.DeleteService, middleware.RequireRole("admin"))

	// Staff directory routes
	r.GET("/employees", employeeController.GetEmployees)
	r.POST("/employees", employeeController.CreateEmployee, middleware.RequireRole("admin"))

	// Loyalty customer routes
	r.GET("/loyalty-customers", loyaltyController.GetLoyaltyCustomers)
	r.POST("/loyalty-customers", loyaltyController.CreateLoyaltyCustomer)

	// Transaction routes
	r.POST("/payments", paymentController.CreatePayment)
	r.GET("/payments", paymentController.GetPayments)
	r.GET("/payments/stats", paymentController.GetStats)
	r.GET("/payments/:id", paymentController.GetPayment)
	r.PUT("/payments/:id/pay", paymentController.PayNow)
	r.GET("/payments/:id/receipt", paymentController.GetReceipt)

	// WebSocket route for live record updates on open POS screens
	r.GET("/ws", func(c echo.Context) error {
		claims := middleware.GetUserFromToken(c)
		username := ""
		if claims != nil {
			username = claims.Username
		}
		return websocket.HandleWebSocket(c, hub, username)
	})
}
