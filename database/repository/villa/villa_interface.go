package villaRepo

import (
	"villamar/models"
)

// VillaRepository defines persistence operations on the villa catalog.
type VillaRepository interface {
	Create(villa *models.Villa) error
	Update(villa *models.Villa) error
	SetActive(id string, active bool) error
	AddImage(id, publicID string) error

	GetByID(id string) (*models.Villa, error)
	GetBySlug(slug string) (*models.Villa, error)
	List(destination string, featuredOnly bool) ([]models.VillaSummary, error)
}
