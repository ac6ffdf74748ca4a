package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ChapaWebhookAuth verifies the gateway's webhook signature: HMAC-SHA256 over
// the exact raw request body, hex encoded, presented in either accepted
// header. This is the only authentication on the webhook endpoint, since the
// caller is the payment gateway, not a logged-in user. The response never
// says more than "unauthorized" so an outsider cannot learn whether a tx_ref
// exists.
func ChapaWebhookAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		panic("chapa webhook secret is not set")
	}

	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		// Hand the body back to the handler.
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		calculated := hex.EncodeToString(mac.Sum(nil))

		// Either header name is accepted. hmac.Equal keeps the comparison
		// constant time; lowercasing first makes the hex match
		// case-insensitive.
		verified := false
		for _, header := range []string{"Chapa-Signature", "x-chapa-signature"} {
			presented := c.GetHeader(header)
			if presented == "" {
				continue
			}
			if hmac.Equal([]byte(calculated), []byte(strings.ToLower(presented))) {
				verified = true
				break
			}
		}
		if !verified {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
