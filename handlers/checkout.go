// File: handlers/checkout.go
package handlers

import (
	"net/http"

	payment "villamar/services/payment"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler hands the embedded payment surface its client secret.
type CheckoutHandler struct {
	Checkout payment.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout payment.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout}
}

// CreateCheckoutSession opens a provider payment session for the booking
// session and returns the client secret. Called lazily by the payment surface
// on mount, so the dialog can show the stay summary while this is in flight.
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	handle, err := h.Checkout.CreateCheckoutSession(c.Request.Context(), sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, handle)
}
