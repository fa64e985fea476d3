package repositories

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/database"
	"blog/internal/models"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// GetAll retrieves all posts.
func (r *GORMPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := database.Reader(ctx, r.db).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a single post by its ID.
func (r *GORMPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := database.Reader(ctx, r.db).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %d: %w", id, err)
	}
	return &post, nil
}

// GetByUserID retrieves the posts written by one user.
func (r *GORMPostRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	posts := []models.Post{}
	if err := database.Reader(ctx, r.db).Where("user_id = ?", userID).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts for user %d: %w", userID, err)
	}
	return posts, nil
}

// Create inserts a new post within the request session.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	tx, err := database.Writer(ctx, r.db)
	if err != nil {
		return err
	}
	if err := tx.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}
