package handlers

import (
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const maxTitleLength = 50

// PageHandler renders the server-side HTML pages.
type PageHandler struct {
	posts *services.PostService
	users *services.UserService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(posts *services.PostService, users *services.UserService) *PageHandler {
	return &PageHandler{
		posts: posts,
		users: users,
	}
}

// RegisterRoutes registers the page routes.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/posts", h.HandleHome)
	router.Get("/posts/:post_id", h.HandlePost)
	router.Get("/users/:user_id/posts", h.HandleUserPosts)
}

// HandleHome lists every post.
func (h *PageHandler) HandleHome(c *fiber.Ctx) error {
	posts, err := h.posts.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("home", fiber.Map{
		"Title": "Home",
		"Posts": posts,
	})
}

// HandlePost shows a single post.
func (h *PageHandler) HandlePost(c *fiber.Ctx) error {
	id, err := paramID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render("post", fiber.Map{
		"Title": Truncate(post.Title, maxTitleLength),
		"Post":  post,
	})
}

// HandleUserPosts lists the posts of one user.
func (h *PageHandler) HandleUserPosts(c *fiber.Ctx) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	user, posts, err := h.users.GetUserPosts(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render("user_posts", fiber.Map{
		"Title": "Posts by " + user.Username,
		"User":  user,
		"Posts": posts,
	})
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
