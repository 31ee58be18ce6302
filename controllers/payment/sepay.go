package paymentControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lynhutanh/labubu-api/config"
	orderControllers "github.com/lynhutanh/labubu-api/controllers/order"
	"github.com/lynhutanh/labubu-api/metrics"
	"github.com/lynhutanh/labubu-api/models"
	"gorm.io/gorm"
)

const sepayQRBase = "https://qr.sepay.vn/img"

// PaymentInfo carries the bank-transfer instructions for a pending sepay
// order. Derived from the order on demand, never persisted.
type PaymentInfo struct {
	Amount     float64   `json:"amount"`
	PaymentRef string    `json:"paymentRef"`
	QRUrl      string    `json:"qrUrl"`
	ExpiredAt  time.Time `json:"expiredAt"`
}

// PaymentReference is the string the payer puts in the transfer memo: the
// order number with dashes stripped, e.g. ORD-000123 -> ORD000123.
func PaymentReference(orderNumber string) string {
	return strings.ReplaceAll(orderNumber, "-", "")
}

// BuildPaymentInfo derives transfer instructions for an order. The amount is
// always the order total; the QR image encodes account, amount and memo.
func BuildPaymentInfo(order models.Order, cfg config.Config) PaymentInfo {
	ref := PaymentReference(order.OrderNumber)

	q := url.Values{}
	q.Set("acc", cfg.SepayBankAccount)
	q.Set("bank", cfg.SepayBankCode)
	q.Set("amount", fmt.Sprintf("%.0f", order.TotalAmount))
	q.Set("des", ref)

	return PaymentInfo{
		Amount:     order.TotalAmount,
		PaymentRef: ref,
		QRUrl:      sepayQRBase + "?" + q.Encode(),
		ExpiredAt:  order.CreatedAt.Add(cfg.PaymentExpiry),
	}
}

// GET /orders/:orderCode/payment
func GetPaymentInfoHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("orderCode")

		var order models.Order
		if err := db.Where("order_number = ?", code).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if order.PaymentMethod != models.PaymentMethodSepay {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment method does not use bank transfer"})
			return
		}

		// Payment info only exists while the order is awaiting transfer.
		if order.PaymentStatus != models.PaymentStatusPending {
			c.JSON(http.StatusGone, gin.H{"error": "payment window closed"})
			return
		}

		info := BuildPaymentInfo(order, cfg)
		if time.Now().After(info.ExpiredAt) {
			c.JSON(http.StatusGone, gin.H{"error": "payment window expired"})
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

// SepayWebhook is the transfer notification sepay posts when money lands on
// the configured account.
type SepayWebhook struct {
	ID              int64   `json:"id"`
	Gateway         string  `json:"gateway"`
	TransactionDate string  `json:"transactionDate"`
	AccountNumber   string  `json:"accountNumber"`
	Content         string  `json:"content"`
	TransferType    string  `json:"transferType"`
	TransferAmount  float64 `json:"transferAmount"`
	ReferenceCode   string  `json:"referenceCode"`
}

var paymentRefPattern = regexp.MustCompile(`ORD\d{6,}`)

// ExtractPaymentRef pulls the order payment reference out of a free-text
// transfer memo. Banks mangle memos with their own prefixes, so the ref is
// matched anywhere in the string.
func ExtractPaymentRef(content string) string {
	return paymentRefPattern.FindString(strings.ToUpper(content))
}

type reconcileOutcome int

const (
	reconcileConfirm reconcileOutcome = iota
	reconcileAlreadyPaid
	reconcileUnderpaid
)

// reconcileTransfer decides what an incoming transfer does to its order.
// Banks re-deliver notifications, so a transfer landing on an already-paid
// order is acknowledged unchanged rather than counted twice; a transfer
// below the order total is rejected.
func reconcileTransfer(order models.Order, transferAmount float64) reconcileOutcome {
	switch {
	case order.PaymentStatus == models.PaymentStatusPaid:
		return reconcileAlreadyPaid
	case transferAmount < order.TotalAmount:
		return reconcileUnderpaid
	default:
		return reconcileConfirm
	}
}

// POST /webhooks/sepay
func SepayWebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hook SepayWebhook
		if err := c.ShouldBindJSON(&hook); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !strings.EqualFold(hook.TransferType, "in") {
			c.JSON(http.StatusOK, gin.H{"message": "outgoing transfer ignored"})
			return
		}

		ref := ExtractPaymentRef(hook.Content)
		if ref == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no payment reference in transfer content"})
			return
		}

		var order models.Order
		if err := db.Where("REPLACE(order_number, '-', '') = ?", ref).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no order for payment reference " + ref})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		switch reconcileTransfer(order, hook.TransferAmount) {
		case reconcileAlreadyPaid:
			c.JSON(http.StatusOK, gin.H{"message": "order already paid"})
			return
		case reconcileUnderpaid:
			log.Printf("❌ Underpaid transfer for %s: got %.0f, want %.0f",
				order.OrderNumber, hook.TransferAmount, order.TotalAmount)
			c.JSON(http.StatusBadRequest, gin.H{"error": "transfer amount does not cover order total"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"payment_status": models.PaymentStatusPaid,
					"status":         models.OrderStatusConfirmed,
					"payment_ref":    hook.ReferenceCode,
				}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
			return
		}

		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusConfirmed
		order.PaymentRef = hook.ReferenceCode

		metrics.PaymentsConfirmed.Inc()
		orderControllers.BroadcastOrderUpdate(order)
		log.Printf("✅ Payment confirmed for %s (txn %s)", order.OrderNumber, hook.ReferenceCode)

		c.JSON(http.StatusOK, gin.H{"message": "payment confirmed"})
	}
}
