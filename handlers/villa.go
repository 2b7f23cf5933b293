// File: handlers/villa.go
package handlers

import (
	"errors"
	"net/http"

	villaRepo "villamar/database/repository/villa"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VillaHandler serves the public villa catalog.
type VillaHandler struct {
	Repo villaRepo.VillaRepository
}

// NewVillaHandler creates a new VillaHandler.
func NewVillaHandler(repo villaRepo.VillaRepository) *VillaHandler {
	return &VillaHandler{Repo: repo}
}

// ListVillas returns active villas, optionally filtered by destination or
// limited to featured properties.
func (h *VillaHandler) ListVillas(c *gin.Context) {
	destination := c.Query("destination")
	featuredOnly := c.Query("featured") == "true"

	villas, err := h.Repo.List(destination, featuredOnly)
	if err != nil {
		zap.L().Error("failed to list villas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list villas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"villas": villas})
}

// GetVillaBySlug returns the full villa record for a listing page.
func (h *VillaHandler) GetVillaBySlug(c *gin.Context) {
	slug := c.Param("slug")

	villa, err := h.Repo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, villaRepo.ErrVillaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "villa not found"})
			return
		}
		zap.L().Error("failed to fetch villa", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch villa"})
		return
	}
	if !villa.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "villa not found"})
		return
	}
	c.JSON(http.StatusOK, villa)
}
