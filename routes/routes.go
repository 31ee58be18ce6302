package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/config"
	"github.com/lynhutanh/labubu-api/metrics"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the auth, order,
// payment and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, cfg)

	// Customer order routes (JWT-protected)
	SetupOrderRoutes(r, db, cfg)

	// Sepay webhook (gateway api key)
	SetupPaymentRoutes(r, db, cfg)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, cfg)

	// Prometheus scrape endpoint
	r.GET("/metrics", metrics.Handler())
}
