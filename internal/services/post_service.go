package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog/internal/database"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/schemas"
)

// PostService handles business logic related to posts.
type PostService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	events EventPublisher
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, events EventPublisher) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		events: events,
	}
}

// ListPosts retrieves every post with its author.
func (s *PostService) ListPosts(ctx context.Context) ([]schemas.PostResponse, error) {
	posts, err := s.posts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return postResponses(ctx, s.users, posts)
}

// GetPost retrieves a single post with its author.
func (s *PostService) GetPost(ctx context.Context, id uint) (*schemas.PostResponse, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("post %d: %w", id, ErrPostNotFound)
		}
		return nil, err
	}
	author, err := s.users.GetByID(ctx, post.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author of post %d: %w", id, err)
	}
	resp := schemas.NewPostResponse(*post, *author)
	return &resp, nil
}

// CreatePost stores a new post for an existing user.
func (s *PostService) CreatePost(ctx context.Context, in schemas.PostCreate) (*schemas.PostResponse, error) {
	author, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", in.UserID, ErrUserNotFound)
		}
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		UserID:     author.ID,
		DatePosted: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if err := database.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	resp := schemas.NewPostResponse(*post, *author)
	publish(s.events, "post.created", resp)
	return &resp, nil
}
