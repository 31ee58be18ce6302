package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/config"
	paymentControllers "github.com/lynhutanh/labubu-api/controllers/payment"
	"github.com/lynhutanh/labubu-api/middleware"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	webhooks := r.Group("/webhooks")
	webhooks.Use(middleware.SepayWebhookAuth(cfg.SepayWebhookKey))
	{
		webhooks.POST("/sepay", paymentControllers.SepayWebhookHandler(db))
	}
}
