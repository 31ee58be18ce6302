package adminController

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/lynhutanh/labubu-api/controllers/order"
	"github.com/lynhutanh/labubu-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AddTrackingEventRequest struct {
	Status      string     `json:"status" binding:"required"`
	Description string     `json:"description"`
	Station     string     `json:"station" binding:"required"`
	NextStation string     `json:"next_station"`
	Time        *time.Time `json:"time"`
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := orderControllers.MapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}

		order.Status = newStatus
		orderControllers.BroadcastOrderUpdate(order)

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// POST /admin/orders/:orderID/tracking
func AddTrackingEventHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req AddTrackingEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		eventTime := time.Now()
		if req.Time != nil {
			eventTime = *req.Time
		}

		event := models.TrackingEvent{
			OrderID:     order.ID,
			Time:        eventTime,
			Status:      req.Status,
			Description: req.Description,
			Station:     req.Station,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
			return tx.Model(&order).Updates(map[string]interface{}{
				"current_station": req.Station,
				"next_station":    req.NextStation,
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record tracking event"})
			return
		}

		log.Printf("📦 Tracking event for order %s: %s at %s", order.OrderNumber, req.Status, req.Station)
		c.JSON(http.StatusOK, event)
	}
}

// GET /admin/orders/export
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("User").Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"OrderNumber", "Customer", "Email", "Items", "Subtotal", "ShippingFee",
			"Discount", "Total", "PaymentMethod", "PaymentStatus", "Status",
			"PaymentRef", "TrackingCode", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, o := range orders {
			row := sheet.AddRow()

			var itemNames []string
			for _, item := range o.Items {
				itemNames = append(itemNames, item.ProductName)
			}

			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.User.FullName)
			row.AddCell().SetValue(o.User.Email)
			row.AddCell().SetValue(strings.Join(itemNames, ", "))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.ShippingFee)
			row.AddCell().SetValue(o.Discount)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.PaymentRef)
			row.AddCell().SetValue(o.TrackingCode)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
