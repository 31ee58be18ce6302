package paymentControllers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lynhutanh/labubu-api/config"
	"github.com/lynhutanh/labubu-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentReference(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ORD000123", PaymentReference("ORD-000123"))
	assert.Equal(t, "ORD999999", PaymentReference("ORD-999999"))
}

func TestBuildPaymentInfo(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := models.Order{
		OrderNumber:   "ORD-000123",
		TotalAmount:   250000,
		PaymentMethod: models.PaymentMethodSepay,
		CreatedAt:     created,
	}
	cfg := config.Config{
		SepayBankAccount: "0123456789",
		SepayBankCode:    "VietinBank",
		PaymentExpiry:    15 * time.Minute,
	}

	info := BuildPaymentInfo(order, cfg)

	// The amount due is always the order total.
	assert.Equal(t, order.TotalAmount, info.Amount)
	assert.Equal(t, "ORD000123", info.PaymentRef)
	assert.Equal(t, created.Add(15*time.Minute), info.ExpiredAt)

	assert.Contains(t, info.QRUrl, "https://qr.sepay.vn/img?")
	assert.Contains(t, info.QRUrl, "acc=0123456789")
	assert.Contains(t, info.QRUrl, "bank=VietinBank")
	assert.Contains(t, info.QRUrl, "amount=250000")
	assert.Contains(t, info.QRUrl, "des=ORD000123")
}

func TestExtractPaymentRef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "bare reference",
			content:  "ORD000123",
			expected: "ORD000123",
		},
		{
			name:     "bank memo noise around the reference",
			content:  "CT DEN:408550 ORD000123 chuyen tien mua hang",
			expected: "ORD000123",
		},
		{
			name:     "lowercase memo",
			content:  "thanh toan ord000456",
			expected: "ORD000456",
		},
		{
			name:     "no reference",
			content:  "chuyen tien an trua",
			expected: "",
		},
		{
			name:     "too few digits is not a reference",
			content:  "ORD123",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractPaymentRef(tc.content))
		})
	}
}

func TestReconcileTransfer(t *testing.T) {
	t.Parallel()

	pending := models.Order{
		OrderNumber:   "ORD-000123",
		TotalAmount:   250000,
		PaymentStatus: models.PaymentStatusPending,
	}
	paid := pending
	paid.PaymentStatus = models.PaymentStatusPaid

	testCases := []struct {
		name     string
		order    models.Order
		amount   float64
		expected reconcileOutcome
	}{
		{name: "exact amount confirms", order: pending, amount: 250000, expected: reconcileConfirm},
		{name: "overpayment confirms", order: pending, amount: 300000, expected: reconcileConfirm},
		{name: "underpayment rejected", order: pending, amount: 249999, expected: reconcileUnderpaid},
		{name: "re-delivered notification acknowledged once", order: paid, amount: 250000, expected: reconcileAlreadyPaid},
		{name: "re-delivery wins over amount check", order: paid, amount: 1, expected: reconcileAlreadyPaid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, reconcileTransfer(tc.order, tc.amount))
		})
	}
}

func TestSepayWebhookDecoding(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": 92704,
		"gateway": "VietinBank",
		"transactionDate": "2026-03-01 12:05:00",
		"accountNumber": "0123456789",
		"content": "CT DEN:408550 ORD000123",
		"transferType": "in",
		"transferAmount": 250000,
		"referenceCode": "MBVCB.3278907687"
	}`

	var hook SepayWebhook
	require.NoError(t, json.Unmarshal([]byte(payload), &hook))

	assert.Equal(t, int64(92704), hook.ID)
	assert.Equal(t, "in", hook.TransferType)
	assert.Equal(t, 250000.0, hook.TransferAmount)
	assert.Equal(t, "ORD000123", ExtractPaymentRef(hook.Content))
	assert.Equal(t, "MBVCB.3278907687", hook.ReferenceCode)
}
