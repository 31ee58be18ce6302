package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lynhutanh/labubu-api/config"
	"github.com/lynhutanh/labubu-api/models"
	"github.com/lynhutanh/labubu-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.AuthProvider{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingEvent{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, cfg)

	// Sweep abandoned transfer orders hourly
	go startStaleOrderSweeper(db, cfg.StaleOrderTTL, time.Hour)

	// Start server
	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startStaleOrderSweeper cancels sepay orders whose payment never arrived.
// The payment window itself is minutes; this runs far behind it so a
// customer can still find and retry a pending order from their order list.
func startStaleOrderSweeper(db *gorm.DB, ttl, every time.Duration) {
	for {
		time.Sleep(every)

		cutoff := time.Now().Add(-ttl)
		res := db.Model(&models.Order{}).
			Where("payment_method = ?", models.PaymentMethodSepay).
			Where("payment_status = ?", models.PaymentStatusPending).
			Where("created_at < ?", cutoff).
			Updates(map[string]interface{}{
				"status":         models.OrderStatusCancelled,
				"payment_status": models.PaymentStatusFailed,
			})

		if res.Error != nil {
			log.Printf("❌ Stale order sweep failed: %v", res.Error)
		} else if res.RowsAffected > 0 {
			log.Printf("🗑️ Cancelled %d unpaid transfer orders older than %s", res.RowsAffected, ttl)
		}
	}
}
