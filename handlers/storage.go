// File: handlers/storage.go
package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	villaRepo "villamar/database/repository/villa"
	"villamar/services/storage"

	"github.com/gin-gonic/gin"
)

// StorageHandler manages villa gallery media.
type StorageHandler struct {
	StorageSvc storage.StorageService
	Villas     villaRepo.VillaRepository
}

// NewStorageHandler creates a new StorageHandler instance.
func NewStorageHandler(svc storage.StorageService, villas villaRepo.VillaRepository) *StorageHandler {
	return &StorageHandler{StorageSvc: svc, Villas: villas}
}

// UploadVillaImageHandler uploads a gallery photo for a villa and records its
// public ID on the villa document.
func (h *StorageHandler) UploadVillaImageHandler(c *gin.Context) {
	villaID := c.Param("id")
	if _, err := h.Villas.GetByID(villaID); err != nil {
		if errors.Is(err, villaRepo.ErrVillaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "villa not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch villa", "detail": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	destFolder := "villas/" + villaID

	publicID, err := h.StorageSvc.UploadFile(c, tempFilePath, destFolder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file", "detail": err.Error()})
		return
	}

	if err := h.Villas.AddImage(villaID, publicID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach image to villa", "detail": err.Error()})
		return
	}

	downloadURL, err := h.StorageSvc.GetDeliveryURL(publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct delivery URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "image uploaded successfully",
		"publicID":    publicID,
		"downloadURL": downloadURL,
	})
}

// GetImageURLHandler resolves a gallery public ID to its delivery URL.
func (h *StorageHandler) GetImageURLHandler(c *gin.Context) {
	publicID := c.Param("publicID")

	url, err := h.StorageSvc.GetDeliveryURL(publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate delivery URL", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadURL": url})
}
