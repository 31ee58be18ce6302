package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/config"
	adminController "github.com/lynhutanh/labubu-api/controllers/admin"
	"github.com/lynhutanh/labubu-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires the API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		adminGroup.GET("/orders", adminController.GetAllOrdersHandler(db))
		adminGroup.GET("/orders/export", adminController.ExportOrdersToExcel(db))
		adminGroup.PUT("/orders/:orderID/status", adminController.UpdateOrderStatusHandler(db))
		adminGroup.POST("/orders/:orderID/tracking", adminController.AddTrackingEventHandler(db))
	}
}
