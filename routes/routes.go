package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/config"
	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
)

// SetupRoutes is the single entry-point that wires up the user, order,
// webhook and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, orderSvc *orderControllers.Service, log *zap.Logger) {
	// User routes (JWT-protected): cart, addresses, orders
	SetupUserRoutes(r, db, cfg, orderSvc)

	// Public product browsing
	SetupProductRoutes(r, db)

	// Payment webhook (signature-protected)
	SetupWebhookRoutes(r, cfg, orderSvc, log)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, cfg)
}
