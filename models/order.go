package models

import "time"

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses (storefront fulfillment flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by the shop
	OrderStatusProcessing OrderStatus = "processing" // Being packed
	OrderStatusShipping   OrderStatus = "shipping"   // Handed to the carrier
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the parcel
	OrderStatusCompleted  OrderStatus = "completed"  // Closed after the return window
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping
	OrderStatusRefunded   OrderStatus = "refunded"   // Money returned after cancellation/return

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer

	// Payment methods
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodWallet  PaymentMethod = "wallet"
	PaymentMethodPaypal  PaymentMethod = "paypal"
	PaymentMethodZaloPay PaymentMethod = "zalopay"
	PaymentMethodSepay   PaymentMethod = "sepay"
)

// ShippingAddress is snapshotted onto the order at checkout so later profile
// edits never rewrite past orders.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Note     string `json:"note"`
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex" json:"order_number"`
	UserID      string      `gorm:"not null;index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"user"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// Totals are computed server-side at placement; TotalAmount is always
	// Subtotal - Discount + ShippingFee.
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `json:"total_amount"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`

	// PaymentRef is the gateway-side transaction reference, filled in when the
	// payment confirmation webhook reconciles the transfer.
	PaymentRef     string `json:"payment_ref,omitempty"`
	TrackingCode   string `json:"tracking_code,omitempty"`
	CurrentStation string `json:"current_station,omitempty"`
	NextStation    string `json:"next_station,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}
