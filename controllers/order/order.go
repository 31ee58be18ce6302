package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/metrics"
	"github.com/lynhutanh/labubu-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Shipping rule: flat fee below the free-shipping threshold. Amounts in VND.
const (
	flatShippingFee       = 30000.0
	freeShippingThreshold = 500000.0
)

// -------- Request Structs --------

type PlaceOrderItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	Items           []PlaceOrderItem       `json:"items" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
}

// -------- Helpers --------

// Map string to PaymentMethod
func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch strings.ToLower(method) {
	case string(models.PaymentMethodCOD):
		return models.PaymentMethodCOD, nil
	case string(models.PaymentMethodWallet):
		return models.PaymentMethodWallet, nil
	case string(models.PaymentMethodPaypal):
		return models.PaymentMethodPaypal, nil
	case string(models.PaymentMethodZaloPay):
		return models.PaymentMethodZaloPay, nil
	case string(models.PaymentMethodSepay):
		return models.PaymentMethodSepay, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// Map string to OrderStatus
func MapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipping):
		return models.OrderStatusShipping, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCompleted):
		return models.OrderStatusCompleted, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	case string(models.OrderStatusRefunded):
		return models.OrderStatusRefunded, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// validateShippingAddress rejects blank required fields. Binding tags catch
// missing keys; this catches whitespace-only values.
func validateShippingAddress(addr models.ShippingAddress) error {
	required := map[string]string{
		"full_name": addr.FullName,
		"phone":     addr.Phone,
		"address":   addr.Address,
		"province":  addr.Province,
		"district":  addr.District,
		"ward":      addr.Ward,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("shipping address field %q must not be blank", field)
		}
	}
	return nil
}

// shippingFeeFor returns the fee applied to a subtotal.
func shippingFeeFor(subtotal float64) float64 {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	return flatShippingFee
}

// computeTotals derives subtotal/shipping/total from priced items. Discount
// is kept as an explicit operand so total always equals
// subtotal - discount + shippingFee.
func computeTotals(items []models.OrderItem, discount float64) (subtotal, shippingFee, total float64) {
	for _, item := range items {
		subtotal += item.Subtotal
	}
	shippingFee = shippingFeeFor(subtotal)
	total = subtotal - discount + shippingFee
	return subtotal, shippingFee, total
}

// orderNumberFor formats the customer-facing order number from the row id.
func orderNumberFor(id uint) string {
	return fmt.Sprintf("ORD-%06d", id)
}

// ownedBy reports whether an order belongs to the given user. Order numbers
// are sequential, so handlers exposing address or item detail answer 404 for
// someone else's order rather than leaking it.
func ownedBy(order models.Order, userID string) bool {
	return userID != "" && order.UserID == userID
}

// orderByCode loads an order by id or order number, whichever matches.
func orderByCode(db *gorm.DB, code string) (models.Order, error) {
	var order models.Order
	err := db.Preload("Items").
		Where("order_number = ?", code).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if id, convErr := strconv.Atoi(code); convErr == nil {
			err = db.Preload("Items").First(&order, "id = ?", id).Error
		}
	}
	return order, err
}

// -------- Core Logic --------

// PlaceOrder atomically creates an order from the submitted items: product
// rows are locked, stock checked and deducted, totals computed server-side.
func PlaceOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("cart is empty")
	}
	if err := validateShippingAddress(req.ShippingAddress); err != nil {
		return models.Order{}, err
	}

	paymentMethod, err := mapPaymentMethod(req.PaymentMethod)
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order

	err = db.Transaction(func(tx *gorm.DB) error {
		var orderItems []models.OrderItem

		for _, item := range req.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d not found", item.ProductID)
				}
				return err
			}

			if product.Stock < item.Quantity {
				return errors.New("insufficient stock for product: " + product.Name)
			}

			// Deduct stock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				UnitPrice:    product.Price,
				Quantity:     item.Quantity,
				Subtotal:     product.Price * float64(item.Quantity),
			})
		}

		subtotal, shippingFee, total := computeTotals(orderItems, 0)

		order = models.Order{
			UserID:          userID,
			Items:           orderItems,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			Discount:        0,
			TotalAmount:     total,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Status:          models.OrderStatusPending,
			CreatedAt:       time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// The order number embeds the row id, so it is assigned after insert.
		order.OrderNumber = orderNumberFor(order.ID)
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("order_number", order.OrderNumber).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID, _ := c.Get("user_id")
		uid, _ := userID.(string)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		order, err := PlaceOrder(db, uid, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		metrics.OrdersPlaced.WithLabelValues(string(order.PaymentMethod)).Inc()
		BroadcastOrderUpdate(order)

		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:orderCode/status
func OrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orderByCode(db, c.Param("orderCode"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{
			"status":        order.Status,
			"paymentStatus": order.PaymentStatus,
		}
		if order.PaymentRef != "" {
			resp["paymentRef"] = order.PaymentRef
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /orders/:orderCode
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orderByCode(db, c.Param("orderCode"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		userID, _ := c.Get("user_id")
		if uid, _ := userID.(string); !ownedBy(order, uid) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /orders?page&limit&status&paymentStatus
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		uid, _ := userID.(string)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 || limit > 100 {
			limit = 10
		}

		query := db.Model(&models.Order{}).Where("user_id = ?", uid)

		if status := c.Query("status"); status != "" {
			mapped, err := MapOrderStatus(status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", mapped)
		}
		if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
			mapped, err := mapPaymentStatus(paymentStatus)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("payment_status = ?", mapped)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var orders []models.Order
		if err := query.
			Preload("Items").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"total":  total,
			"page":   page,
			"limit":  limit,
		})
	}
}

// GET /orders/:orderCode/tracking
func OrderTrackingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orderByCode(db, c.Param("orderCode"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		userID, _ := c.Get("user_id")
		if uid, _ := userID.(string); !ownedBy(order, uid) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		var timeline []models.TrackingEvent
		if err := db.Where("order_id = ?", order.ID).
			Order("time ASC").
			Find(&timeline).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"current_status":  order.Status,
			"current_station": order.CurrentStation,
			"next_station":    order.NextStation,
			"timeline":        timeline,
		})
	}
}
