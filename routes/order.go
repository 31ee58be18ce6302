package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/config"
	orderControllers "github.com/lynhutanh/labubu-api/controllers/order"
	paymentControllers "github.com/lynhutanh/labubu-api/controllers/payment"
	"github.com/lynhutanh/labubu-api/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	// websocket endpoint for real-time order updates; the upgrade request
	// cannot carry the usual Authorization header from a browser.
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Create a new order from the submitted cart
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Paginated order history for the authenticated user
		orders.GET("", orderControllers.ListOrdersHandler(db))

		// Bank-transfer instructions for a pending sepay order
		orders.GET("/:orderCode/payment", paymentControllers.GetPaymentInfoHandler(db, cfg))

		// Polled by the checkout page while waiting for the transfer
		orders.GET("/:orderCode/status", orderControllers.OrderStatusHandler(db))

		// Carrier timeline
		orders.GET("/:orderCode/tracking", orderControllers.OrderTrackingHandler(db))

		// Full order detail (accepts id or order number)
		orders.GET("/:orderCode", orderControllers.GetOrderHandler(db))
	}
}
