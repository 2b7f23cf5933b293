package storage

import (
	"context"
)

// StorageService defines the interface for media storage operations backing
// the villa galleries.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDeliveryURL(publicID string) (string, error)
}
