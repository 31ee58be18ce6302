package orderControllers

import (
	"testing"

	"github.com/lynhutanh/labubu-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	items := []models.OrderItem{
		{UnitPrice: 100000, Quantity: 2, Subtotal: 200000},
		{UnitPrice: 50000, Quantity: 1, Subtotal: 50000},
	}

	t.Run("total is subtotal minus discount plus shipping", func(t *testing.T) {
		subtotal, shippingFee, total := computeTotals(items, 20000)
		assert.Equal(t, 250000.0, subtotal)
		assert.Equal(t, flatShippingFee, shippingFee)
		assert.Equal(t, subtotal-20000+shippingFee, total)
	})

	t.Run("free shipping above threshold", func(t *testing.T) {
		big := []models.OrderItem{{Subtotal: freeShippingThreshold}}
		_, shippingFee, total := computeTotals(big, 0)
		assert.Equal(t, 0.0, shippingFee)
		assert.Equal(t, freeShippingThreshold, total)
	})

	t.Run("empty items", func(t *testing.T) {
		subtotal, shippingFee, total := computeTotals(nil, 0)
		assert.Equal(t, 0.0, subtotal)
		assert.Equal(t, flatShippingFee, shippingFee)
		assert.Equal(t, flatShippingFee, total)
	})
}

func TestValidateShippingAddress(t *testing.T) {
	t.Parallel()

	valid := models.ShippingAddress{
		FullName: "Trần Thị B",
		Phone:    "0901234567",
		Address:  "12 Nguyễn Huệ",
		Province: "TP. Hồ Chí Minh",
		District: "Quận 1",
		Ward:     "Phường Bến Nghé",
	}

	t.Run("complete address passes", func(t *testing.T) {
		require.NoError(t, validateShippingAddress(valid))
	})

	testCases := []struct {
		name   string
		mutate func(*models.ShippingAddress)
	}{
		{name: "blank name", mutate: func(a *models.ShippingAddress) { a.FullName = "" }},
		{name: "blank phone", mutate: func(a *models.ShippingAddress) { a.Phone = "  " }},
		{name: "blank street address", mutate: func(a *models.ShippingAddress) { a.Address = "" }},
		{name: "blank province", mutate: func(a *models.ShippingAddress) { a.Province = "\t" }},
		{name: "blank district", mutate: func(a *models.ShippingAddress) { a.District = "" }},
		{name: "blank ward", mutate: func(a *models.ShippingAddress) { a.Ward = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr := valid
			tc.mutate(&addr)
			assert.Error(t, validateShippingAddress(addr))
		})
	}

	t.Run("note may be empty", func(t *testing.T) {
		addr := valid
		addr.Note = ""
		assert.NoError(t, validateShippingAddress(addr))
	})
}

func TestOrderNumberFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ORD-000123", orderNumberFor(123))
	assert.Equal(t, "ORD-000001", orderNumberFor(1))
	// Ids past six digits widen instead of truncating.
	assert.Equal(t, "ORD-1234567", orderNumberFor(1234567))
}

func TestMapPaymentMethod(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"cod", "wallet", "paypal", "zalopay", "sepay"} {
		t.Run(method, func(t *testing.T) {
			mapped, err := mapPaymentMethod(method)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentMethod(method), mapped)
		})
	}

	t.Run("case-insensitive", func(t *testing.T) {
		mapped, err := mapPaymentMethod("SePay")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentMethodSepay, mapped)
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := mapPaymentMethod("bitcoin")
		assert.Error(t, err)
	})
}

func TestMapOrderStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{
		"pending", "confirmed", "processing", "shipping",
		"delivered", "completed", "cancelled", "refunded",
	} {
		t.Run(status, func(t *testing.T) {
			mapped, err := MapOrderStatus(status)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatus(status), mapped)
		})
	}

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := MapOrderStatus("teleported")
		assert.Error(t, err)
	})
}

func TestOwnedBy(t *testing.T) {
	t.Parallel()

	order := models.Order{OrderNumber: "ORD-000123", UserID: "user-1"}

	assert.True(t, ownedBy(order, "user-1"))
	assert.False(t, ownedBy(order, "user-2"), "a guessed order number must not expose another user's order")
	assert.False(t, ownedBy(order, ""), "an absent user id never matches")
}

func TestPlaceOrderRejectsBeforeDB(t *testing.T) {
	t.Parallel()

	addr := models.ShippingAddress{
		FullName: "A", Phone: "1", Address: "x", Province: "p", District: "d", Ward: "w",
	}

	// A nil *gorm.DB proves these requests never reach the database.
	t.Run("empty cart", func(t *testing.T) {
		_, err := PlaceOrder(nil, "user-1", PlaceOrderRequest{
			ShippingAddress: addr,
			PaymentMethod:   "sepay",
		})
		assert.EqualError(t, err, "cart is empty")
	})

	t.Run("blank address field", func(t *testing.T) {
		bad := addr
		bad.Address = " "
		_, err := PlaceOrder(nil, "user-1", PlaceOrderRequest{
			Items:           []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
			ShippingAddress: bad,
			PaymentMethod:   "sepay",
		})
		assert.ErrorContains(t, err, "must not be blank")
	})

	t.Run("invalid payment method", func(t *testing.T) {
		_, err := PlaceOrder(nil, "user-1", PlaceOrderRequest{
			Items:           []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
			ShippingAddress: addr,
			PaymentMethod:   "cheque",
		})
		assert.EqualError(t, err, "invalid payment method")
	})
}
