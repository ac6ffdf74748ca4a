package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/config"
	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
	"github.com/firo1919/e-commerce-sub000/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints, behind the API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg.AdminKey))
	{
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		adminGroup.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
	}
}
