package repositories

import (
	"context"

	"blog/internal/models"
)

// PostRepository defines the interface for post data access.
// Lists come back in ascending primary key order.
type PostRepository interface {
	GetAll(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
}
