package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", ChapaWebhookAuth(secret), func(c *gin.Context) {
		// The handler must still see the raw body after verification.
		body, err := c.GetRawData()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	})
	return r
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestChapaWebhookAuthValidSignature(t *testing.T) {
	r := newSignedRouter("secret")
	body := []byte(`{"status":"success","tx_ref":"tx-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Chapa-Signature", signBody("secret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(body), w.Body.String())
}

func TestChapaWebhookAuthAlternateHeader(t *testing.T) {
	r := newSignedRouter("secret")
	body := []byte(`{"status":"success","tx_ref":"tx-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("x-chapa-signature", signBody("secret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChapaWebhookAuthUppercaseHexAccepted(t *testing.T) {
	r := newSignedRouter("secret")
	body := []byte(`{"status":"success","tx_ref":"tx-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Chapa-Signature", strings.ToUpper(signBody("secret", body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChapaWebhookAuthWrongSecret(t *testing.T) {
	r := newSignedRouter("secret")
	body := []byte(`{"status":"success","tx_ref":"tx-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Chapa-Signature", signBody("other-secret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChapaWebhookAuthTamperedBody(t *testing.T) {
	r := newSignedRouter("secret")
	body := []byte(`{"status":"success","tx_ref":"tx-1"}`)
	signature := signBody("secret", body)

	tampered := []byte(`{"status":"success","tx_ref":"tx-2"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(tampered))
	req.Header.Set("Chapa-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChapaWebhookAuthMissingSignature(t *testing.T) {
	r := newSignedRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
