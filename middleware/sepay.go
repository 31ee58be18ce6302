package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SepayWebhookAuth verifies the "Authorization: Apikey <key>" header sepay
// attaches to transfer notifications.
func SepayWebhookAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Apikey ")
		if !ok || provided != key {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook api key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
