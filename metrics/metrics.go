package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labubu_orders_placed_total",
		Help: "Orders created at checkout, by payment method.",
	}, []string{"payment_method"})

	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labubu_payments_confirmed_total",
		Help: "Bank transfers reconciled to an order by the sepay webhook.",
	})
)

// Handler exposes the prometheus registry as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
