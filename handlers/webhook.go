// File: handlers/webhook.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"villamar/config"
	"villamar/models"
	payment "villamar/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Stripe recommends capping webhook bodies at 64KB.
const maxWebhookBody = int64(65536)

// WebhookHandler receives payment provider events. It is the only code path
// that writes booking records.
type WebhookHandler struct {
	Processor *payment.WebhookProcessor
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(processor *payment.WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{Processor: processor}
}

// HandleStripeEvent verifies the event signature and dispatches completed
// checkouts to the booking writer. Unknown event types are acknowledged.
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		zap.L().Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			zap.L().Error("failed to parse checkout session payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}

		completed := models.CompletedCheckout{
			ProviderSessionID: cs.ID,
			AmountPaid:        float64(cs.AmountTotal) / 100,
			Currency:          string(cs.Currency),
			PaymentStatus:     string(cs.PaymentStatus),
			Metadata:          cs.Metadata,
		}
		if _, err := h.Processor.ProcessCompletedCheckout(c.Request.Context(), completed); err != nil {
			zap.L().Error("failed to process completed checkout",
				zap.String("providerSessionID", cs.ID), zap.Error(err))
			// Non-2xx makes the provider redeliver; the upsert is replay-safe.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record booking"})
			return
		}
	default:
		zap.L().Debug("ignoring webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
