package chapaControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
	"github.com/firo1919/e-commerce-sub000/models"
)

// webhookPayload is the part of the gateway notification the reconciliation
// cares about. The signature middleware has already verified the raw body.
type webhookPayload struct {
	Status string `json:"status"`
	TxRef  string `json:"tx_ref"`
}

// WebhookHandler applies a payment-result notification to its order.
//
// Response contract: 204 for every processed delivery, including duplicates
// and unknown tx_refs (the gateway retries on any non-2xx, and retrying those
// forever helps nobody once they are logged). 500 only when reconciliation
// itself failed and a retry could succeed.
func WebhookHandler(svc *orderControllers.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload webhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed webhook payload"})
			return
		}
		if payload.TxRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tx_ref"})
			return
		}

		err := svc.Reconcile(payload.TxRef, payload.Status)
		switch {
		case err == nil:
			c.Status(http.StatusNoContent)
		case errors.Is(err, orderControllers.ErrOrderNotFound):
			log.Warn("webhook for unknown tx_ref",
				zap.String("tx_ref", payload.TxRef),
				zap.String("status", payload.Status))
			c.Status(http.StatusNoContent)
		case errors.Is(err, models.ErrInsufficientStock):
			// Money captured but stock gone: surfaced for ops, gateway retries.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "insufficient stock"})
		default:
			log.Error("webhook reconciliation failed",
				zap.String("tx_ref", payload.TxRef),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		}
	}
}
