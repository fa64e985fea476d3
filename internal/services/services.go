package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/schemas"
)

var (
	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound means the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrUsernameTaken is returned when another user already has the username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when another user already has the email address.
	ErrEmailTaken = errors.New("email already registered")
)

// EventPublisher publishes domain events once a write is committed.
type EventPublisher interface {
	PublishEvent(name string, data any) error
}

// publish is best effort: a committed write is never undone by a broker failure.
func publish(events EventPublisher, name string, data any) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(name, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", name, err)
	}
}

// postResponses resolves the author of every post with a single lookup.
func postResponses(ctx context.Context, users repositories.UserRepository, posts []models.Post) ([]schemas.PostResponse, error) {
	seen := make(map[uint]bool, len(posts))
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	authors, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post authors: %w", err)
	}
	byID := make(map[uint]models.User, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	out := make([]schemas.PostResponse, 0, len(posts))
	for _, p := range posts {
		author, ok := byID[p.UserID]
		if !ok {
			return nil, fmt.Errorf("author %d of post %d is missing", p.UserID, p.ID)
		}
		out = append(out, schemas.NewPostResponse(p, author))
	}
	return out, nil
}
