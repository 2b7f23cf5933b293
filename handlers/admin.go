// File: handlers/admin.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"villamar/config"
	bookingRepo "villamar/database/repository/booking"
	villaRepo "villamar/database/repository/villa"
	"villamar/models"
	admin "villamar/services/admin"
	"villamar/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler encapsulates the back-office surface: login, booking
// management and catalog maintenance.
type AdminHandler struct {
	Bookings admin.BookingAdminService
	Villas   villaRepo.VillaRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings admin.BookingAdminService, villas villaRepo.VillaRepository) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Villas: villas}
}

// Login exchanges the configured admin credentials for a short-lived JWT.
func (ah *AdminHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if input.Email != config.AppConfig.AdminEmail ||
		bcrypt.CompareHashAndPassword([]byte(config.AppConfig.AdminPasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(input.Email, "admin", 12*time.Hour)
	if err != nil {
		zap.L().Error("failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListBookings lists bookings filtered by status, villa and check-in range.
func (ah *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status:   models.BookingStatus(c.Query("status")),
		VillaID:  c.Query("villaId"),
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
	}

	bookings, err := ah.Bookings.ListBookings(filter)
	if err != nil {
		zap.L().Error("failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns a single booking record.
func (ah *AdminHandler) GetBooking(c *gin.Context) {
	record, err := ah.Bookings.GetBooking(c.Param("id"))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		zap.L().Error("failed to fetch booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// Dashboard returns counts by status and upcoming arrivals.
func (ah *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := ah.Bookings.Dashboard()
	if err != nil {
		zap.L().Error("failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UpdateBookingStatus applies a guarded status transition. The client echoes
// back the updatedAt it last saw; a concurrent edit yields 409 instead of a
// silently lost update.
func (ah *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var input struct {
		Status    models.BookingStatus `json:"status" binding:"required"`
		UpdatedAt string               `json:"updatedAt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := ah.Bookings.UpdateStatus(c.Param("id"), input.Status, input.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, admin.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "status transition not allowed"})
		case errors.Is(err, bookingRepo.ErrStaleBooking):
			c.JSON(http.StatusConflict, gin.H{"error": "booking was modified by another session; reload and retry"})
		default:
			zap.L().Error("failed to update booking status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking status"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CreateVilla adds a property to the catalog.
func (ah *AdminHandler) CreateVilla(c *gin.Context) {
	var villa models.Villa
	if err := c.ShouldBindJSON(&villa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if villa.Slug == "" || villa.Name == "" || villa.PricePerNight <= 0 || villa.MaxGuests < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug, name, pricePerNight and maxGuests are required"})
		return
	}
	if villa.DepositPercentage == 0 {
		villa.DepositPercentage = config.AppConfig.DefaultDepositRate
	}
	villa.ID = uuid.New().String()
	villa.Active = true

	if err := ah.Villas.Create(&villa); err != nil {
		zap.L().Error("failed to create villa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create villa"})
		return
	}
	c.JSON(http.StatusCreated, villa)
}

// UpdateVilla replaces a villa document.
func (ah *AdminHandler) UpdateVilla(c *gin.Context) {
	var villa models.Villa
	if err := c.ShouldBindJSON(&villa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	villa.ID = c.Param("id")

	if err := ah.Villas.Update(&villa); err != nil {
		if errors.Is(err, villaRepo.ErrVillaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "villa not found"})
			return
		}
		zap.L().Error("failed to update villa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update villa"})
		return
	}
	c.JSON(http.StatusOK, villa)
}

// DeactivateVilla takes a property off the market without deleting it.
func (ah *AdminHandler) DeactivateVilla(c *gin.Context) {
	if err := ah.Villas.SetActive(c.Param("id"), false); err != nil {
		if errors.Is(err, villaRepo.ErrVillaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "villa not found"})
			return
		}
		zap.L().Error("failed to deactivate villa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate villa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": false})
}
