package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, requests *atomic.Int64, respond func(n int64, w http.ResponseWriter)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/ORD-000123/status", r.URL.Path)
		n := requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		respond(n, w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPaymentWatcher_StopsOnPaid(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := statusServer(t, &requests, func(n int64, w http.ResponseWriter) {
		if n < 3 {
			w.Write([]byte(`{"status":"pending","paymentStatus":"pending"}`))
			return
		}
		// Uppercase on purpose: the match must be case-insensitive.
		w.Write([]byte(`{"status":"confirmed","paymentStatus":"PAID","paymentRef":"FT123"}`))
	})

	watcher := NewPaymentWatcher(srv.URL, "ORD-000123", WithInterval(10*time.Millisecond))

	status, err := watcher.Watch(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Paid())
	assert.Equal(t, "FT123", status.PaymentRef)

	// No further requests once the confirming response was observed.
	after := requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, requests.Load())
}

func TestPaymentWatcher_SwallowsPollErrors(t *testing.T) {
	t.Parallel()

	var logged atomic.Int64
	var requests atomic.Int64
	srv := statusServer(t, &requests, func(n int64, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"confirmed","paymentStatus":"paid"}`))
	})

	watcher := NewPaymentWatcher(srv.URL, "ORD-000123",
		WithInterval(10*time.Millisecond),
		WithLogger(func(string, ...interface{}) { logged.Add(1) }),
	)

	status, err := watcher.Watch(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Paid())
	assert.EqualValues(t, 1, logged.Load(), "the failed poll should be logged, not fatal")
}

func TestPaymentWatcher_ContextCancelStopsPolling(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := statusServer(t, &requests, func(n int64, w http.ResponseWriter) {
		w.Write([]byte(`{"status":"pending","paymentStatus":"pending"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	watcher := NewPaymentWatcher(srv.URL, "ORD-000123", WithInterval(10*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		_, err := watcher.Watch(ctx)
		done <- err
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}

	after := requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, requests.Load(), "no requests after cancellation")
}

func TestPaymentWatcher_ExpiryEndsWatch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := statusServer(t, &requests, func(n int64, w http.ResponseWriter) {
		w.Write([]byte(`{"status":"pending","paymentStatus":"pending"}`))
	})

	watcher := NewPaymentWatcher(srv.URL, "ORD-000123",
		WithInterval(10*time.Millisecond),
		WithExpiry(time.Now().Add(45*time.Millisecond)),
	)

	_, err := watcher.Watch(context.Background())
	assert.ErrorIs(t, err, ErrExpired)
	assert.GreaterOrEqual(t, requests.Load(), int64(2), "should keep polling until expiry")
}
