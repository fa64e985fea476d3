package handlers

import (
	"log"

	"blog/internal/schemas"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles JSON API requests for posts.
type PostHandler struct {
	service  *services.PostService
	validate *schemas.Validator
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service:  service,
		validate: schemas.NewValidator(),
	}
}

// RegisterRoutes registers the post routes on the API router.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleGetPosts)
	postRoutes.Post("/", h.HandleCreatePost)
	postRoutes.Get("/:post_id", h.HandleGetPost)
}

// HandleGetPosts returns every post in store order.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGetPost returns a single post.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.service.GetPost(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(post)
}

// HandleCreatePost creates a post for an existing user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var in schemas.PostCreate
	if err := bindBody(c, h.validate, &in); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.UserContext(), in)
	if err != nil {
		log.Printf("Error creating post for user %d: %v", in.UserID, err)
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
