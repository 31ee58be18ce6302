// Package client implements the storefront side of the checkout payment
// flow: the status poller that watches an order until its transfer is
// confirmed, and the countdown against the payment window.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrExpired reports that the payment window deadline passed before a
// confirming status was observed.
var ErrExpired = errors.New("payment window expired")

// DefaultInterval is how often the watcher re-fetches the order status.
const DefaultInterval = 2 * time.Second

// OrderStatus is the payload of GET /orders/{orderCode}/status.
type OrderStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentRef    string `json:"paymentRef,omitempty"`
}

// Paid reports whether the payment status is terminal-success. The backend
// may change casing, so the comparison is case-insensitive.
func (s OrderStatus) Paid() bool {
	return strings.EqualFold(s.PaymentStatus, "paid")
}

// PaymentWatcher polls an order's status until payment is confirmed, the
// optional expiry passes, or the context is cancelled. Poll errors are
// logged and swallowed; the next tick retries.
type PaymentWatcher struct {
	baseURL   string
	orderCode string
	token     string
	interval  time.Duration
	expiry    time.Time
	http      *http.Client
	logf      func(format string, args ...interface{})
}

type Option func(*PaymentWatcher)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) Option {
	return func(w *PaymentWatcher) { w.interval = d }
}

// WithExpiry makes Watch return ErrExpired once the deadline passes. Without
// it the watcher polls until cancelled.
func WithExpiry(t time.Time) Option {
	return func(w *PaymentWatcher) { w.expiry = t }
}

// WithToken attaches a bearer token to every status request.
func WithToken(token string) Option {
	return func(w *PaymentWatcher) { w.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *PaymentWatcher) { w.http = c }
}

// WithLogger overrides where swallowed poll errors are reported.
func WithLogger(logf func(format string, args ...interface{})) Option {
	return func(w *PaymentWatcher) { w.logf = logf }
}

func NewPaymentWatcher(baseURL, orderCode string, opts ...Option) *PaymentWatcher {
	w := &PaymentWatcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		orderCode: orderCode,
		interval:  DefaultInterval,
		http:      &http.Client{Timeout: 10 * time.Second},
		logf:      log.Printf,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch polls until a terminal state. It returns the confirming status and a
// nil error on payment, ErrExpired past the configured deadline, or the
// context error on cancellation. Cancelling the context is the only way to
// stop a watcher that has no expiry.
func (w *PaymentWatcher) Watch(ctx context.Context) (OrderStatus, error) {
	var expiryCh <-chan time.Time
	if !w.expiry.IsZero() {
		timer := time.NewTimer(time.Until(w.expiry))
		defer timer.Stop()
		expiryCh = timer.C
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		status, err := w.fetchStatus(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return OrderStatus{}, ctx.Err()
			}
			w.logf("payment watch: poll failed for %s: %v", w.orderCode, err)
		} else if status.Paid() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return OrderStatus{}, ctx.Err()
		case <-expiryCh:
			return OrderStatus{}, ErrExpired
		case <-ticker.C:
		}
	}
}

func (w *PaymentWatcher) fetchStatus(ctx context.Context) (OrderStatus, error) {
	url := fmt.Sprintf("%s/orders/%s/status", w.baseURL, w.orderCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return OrderStatus{}, err
	}
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return OrderStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return OrderStatus{}, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var status OrderStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return OrderStatus{}, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}
