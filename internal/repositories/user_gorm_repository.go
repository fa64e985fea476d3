package repositories

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/database"
	"blog/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user within the request session.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := database.Writer(ctx, r.db)
	if err != nil {
		return err
	}
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, fmt.Sprintf("ID %d", id), "id = ?", id)
}

// GetByIDs retrieves every user whose ID is listed. Unknown IDs are skipped.
func (r *GORMUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := database.Reader(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username "+username, "username = ?", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email "+email, "email = ?", email)
}

// Delete removes a user together with their posts.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	tx, err := database.Writer(ctx, r.db)
	if err != nil {
		return err
	}
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	if err := tx.Select("Posts").Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, what string, query string, arg any) (*models.User, error) {
	var user models.User
	if err := database.Reader(ctx, r.db).First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s not found: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", what, err)
	}
	return &user, nil
}
