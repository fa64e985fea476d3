package handlers

import (
	"log"

	"blog/internal/schemas"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles JSON API requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *schemas.Validator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: schemas.NewValidator(),
	}
}

// RegisterRoutes registers the user routes on the API router.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:user_id", h.HandleGetUser)
	userRoutes.Get("/:user_id/posts", h.HandleGetUserPosts)
}

// HandleGetUser returns a single user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(user)
}

// HandleCreateUser registers a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var in schemas.UserCreate
	if err := bindBody(c, h.validate, &in); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.UserContext(), in)
	if err != nil {
		log.Printf("Error creating user %s: %v", in.Username, err)
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUserPosts returns every post written by a user.
func (h *UserHandler) HandleGetUserPosts(c *fiber.Ctx) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	_, posts, err := h.service.GetUserPosts(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(posts)
}
