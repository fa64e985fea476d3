package services

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/database"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/schemas"
)

// UserService handles business logic related to users.
type UserService struct {
	users  repositories.UserRepository
	posts  repositories.PostRepository
	events EventPublisher
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(users repositories.UserRepository, posts repositories.PostRepository, events EventPublisher) *UserService {
	return &UserService{
		users:  users,
		posts:  posts,
		events: events,
	}
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*schemas.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := schemas.NewUserResponse(*user)
	return &resp, nil
}

// CreateUser registers a new user after checking that username and email are free.
func (s *UserService) CreateUser(ctx context.Context, in schemas.UserCreate) (*schemas.UserResponse, error) {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, fmt.Errorf("username '%s': %w", in.Username, ErrUsernameTaken)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("email '%s': %w", in.Email, ErrEmailTaken)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{Username: in.Username, Email: in.Email}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if err := database.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	resp := schemas.NewUserResponse(*user)
	publish(s.events, "user.created", resp)
	return &resp, nil
}

// GetUserPosts returns a user together with every post they wrote.
func (s *UserService) GetUserPosts(ctx context.Context, id uint) (*schemas.UserResponse, []schemas.PostResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.posts.GetByUserID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	out := make([]schemas.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, schemas.NewPostResponse(p, *user))
	}
	resp := schemas.NewUserResponse(*user)
	return &resp, out, nil
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
