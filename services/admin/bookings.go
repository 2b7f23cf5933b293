// File: services/admin/bookings.go
package admin

import (
	"errors"
	"time"

	bookingRepo "villamar/database/repository/booking"
	"villamar/models"
)

// ErrInvalidTransition is returned for status changes the lifecycle forbids.
var ErrInvalidTransition = errors.New("booking status transition not allowed")

// DashboardStats is the back-office overview.
type DashboardStats struct {
	CountsByStatus map[models.BookingStatus]int64 `json:"countsByStatus"`
	ArrivingSoon   []models.Booking               `json:"arrivingSoon"`
}

// BookingAdminService exposes the back-office booking surface: list/filter
// plus guarded status transitions.
type BookingAdminService interface {
	ListBookings(filter models.BookingFilter) ([]models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	Dashboard() (*DashboardStats, error)
	UpdateStatus(id string, next models.BookingStatus, expectedUpdatedAt string) (*models.Booking, error)
}

// DefaultBookingAdminService implements BookingAdminService.
type DefaultBookingAdminService struct {
	Repo bookingRepo.BookingRepository
}

func (s *DefaultBookingAdminService) ListBookings(filter models.BookingFilter) ([]models.Booking, error) {
	return s.Repo.List(filter)
}

func (s *DefaultBookingAdminService) GetBooking(id string) (*models.Booking, error) {
	return s.Repo.GetByID(id)
}

// Dashboard aggregates counts per status and lists confirmed stays arriving
// within the next week.
func (s *DefaultBookingAdminService) Dashboard() (*DashboardStats, error) {
	counts, err := s.Repo.CountByStatus()
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	weekOut := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	arriving, err := s.Repo.List(models.BookingFilter{
		Status:   models.BookingStatusConfirmed,
		FromDate: today,
		ToDate:   weekOut,
	})
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		CountsByStatus: counts,
		ArrivingSoon:   arriving,
	}, nil
}

// UpdateStatus applies an admin status change. The transition table rejects
// illegal moves up front; the repository's updated_at guard rejects writes
// racing another admin session, so neither update is silently lost.
func (s *DefaultBookingAdminService) UpdateStatus(id string, next models.BookingStatus, expectedUpdatedAt string) (*models.Booking, error) {
	current, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.BookingStatus, next) {
		return nil, ErrInvalidTransition
	}
	return s.Repo.UpdateStatusGuarded(id, next, expectedUpdatedAt)
}
