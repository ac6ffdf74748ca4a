package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/config"
	addressControllers "github.com/firo1919/e-commerce-sub000/controllers/address"
	cartControllers "github.com/firo1919/e-commerce-sub000/controllers/cart"
	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
	"github.com/firo1919/e-commerce-sub000/middleware"
)

// SetupUserRoutes registers all "/users/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, orderSvc *orderControllers.Service) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		// ──────────────── Addresses ────────────────
		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("/", addressControllers.GetUserAddresses(db))
			addressGroup.POST("/", addressControllers.CreateAddress(db))
			addressGroup.PUT("/:addressID/default", addressControllers.SetDefaultAddressHandler(db))
			addressGroup.DELETE("/:addressID", addressControllers.DeleteAddress(db))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.PlaceOrderHandler(orderSvc))
			orderGroup.POST("/:orderID/pay", orderControllers.RetryPaymentHandler(orderSvc))
			orderGroup.GET("/", orderControllers.GetUserOrdersHandler(db))
			orderGroup.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
		}
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
}
