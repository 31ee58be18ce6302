package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/auth"
	"github.com/lynhutanh/labubu-api/config"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google/login", auth.GoogleLoginHandler(db, cfg))
	}
}
