package schemas

import (
	"time"

	"blog/internal/models"
)

// PostCreate is the payload accepted by POST /api/posts.
type PostCreate struct {
	Title   string `json:"title" validate:"min=1,max=100"`
	Content string `json:"content" validate:"min=1"`
	UserID  uint   `json:"user_id" validate:"required"`
}

// PostResponse carries a post together with its author.
type PostResponse struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	UserID     uint         `json:"user_id"`
	DatePosted time.Time    `json:"date_posted"`
	Author     UserResponse `json:"author"`
}

// NewPostResponse converts a stored post and its author into the response shape.
// The author must be the user referenced by p.UserID.
func NewPostResponse(p models.Post, author models.User) PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		DatePosted: p.DatePosted,
		Author:     NewUserResponse(author),
	}
}
