// File: handlers/booking.go
package handlers

import (
	"errors"
	"net/http"

	booking "villamar/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking dialog's session lifecycle over HTTP.
type BookingHandler struct {
	Sessions booking.BookingSessionService
	Logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(sessions booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Sessions: sessions, Logger: logger}
}

// respondSessionError maps service errors onto HTTP statuses. Validation
// errors carry a stable code the dialog renders inline next to the field.
func respondSessionError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "code": vErr.Code})
		return
	}
	var sErr *booking.StateError
	if errors.As(err, &sErr) {
		c.JSON(http.StatusConflict, gin.H{"error": sErr.Message})
		return
	}
	if errors.Is(err, booking.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
		return
	}
	zap.L().Error("booking session operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "booking session operation failed"})
}

// InitiateSession opens a booking session for a villa.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		VillaID    string `json:"villaId" binding:"required"`
		GuestName  string `json:"guestName"`
		GuestEmail string `json:"guestEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.InitiateSession(c.Request.Context(), input.VillaID, input.GuestName, input.GuestEmail)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetStay submits dates and guest count, advancing the dialog to checkout.
func (h *BookingHandler) SetStay(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
		Guests   int    `json:"guests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SetStay(c.Request.Context(), sessionID, input.CheckIn, input.CheckOut, input.Guests)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Back returns the dialog from checkout to the dates step.
func (h *BookingHandler) Back(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Sessions.Back(c.Request.Context(), sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession returns the current session document.
func (h *BookingHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelSession tears down the session entirely.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Sessions.CancelSession(c.Request.Context(), sessionID); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": sessionID, "cancelled": true})
}

// Confirmation polls for the webhook-written booking behind this session.
// Until the record lands the client receives 202 and retries.
func (h *BookingHandler) Confirmation(c *gin.Context) {
	sessionID := c.Param("sessionID")

	record, err := h.Sessions.Confirmation(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, booking.ErrConfirmationPending) {
			c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
			return
		}
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed", "booking": record})
}
