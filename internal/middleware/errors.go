package middleware

import (
	"errors"
	"log"
	"strings"

	"blog/internal/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// APIPrefix marks requests that get JSON error bodies instead of error pages.
const APIPrefix = "/api"

// FallbackMessage replaces missing messages and is the only text HTML error pages
// show for validation failures.
const FallbackMessage = "The resource you are looking for does not exist."

// ErrorView is the template rendered for HTML error pages.
const ErrorView = "error"

// Response is the negotiated form of an error: exactly one of JSON or View is set.
type Response struct {
	Status int
	JSON   fiber.Map
	View   string
	Bind   fiber.Map
}

// Negotiate turns err into a JSON body for API requests or a render context for pages.
func Negotiate(err error, isAPI bool) Response {
	var (
		status int
		detail any
		msg    string
	)

	var verr *schemas.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		status = fiber.StatusUnprocessableEntity
		detail = verr.Violations
		msg = FallbackMessage
	case errors.As(err, &ferr):
		status = ferr.Code
		msg = ferr.Message
		if msg == "" {
			msg = FallbackMessage
		}
		detail = msg
	default:
		status = fiber.StatusInternalServerError
		msg = utils.StatusMessage(status)
		detail = msg
	}

	if isAPI {
		return Response{Status: status, JSON: fiber.Map{"detail": detail}}
	}
	return Response{
		Status: status,
		View:   ErrorView,
		Bind: fiber.Map{
			"StatusCode": status,
			"Title":      status,
			"Message":    msg,
		},
	}
}

// IsAPIRequest reports whether path belongs to the JSON API.
func IsAPIRequest(path string) bool {
	return strings.HasPrefix(path, APIPrefix)
}

// ErrorHandler is the application's single error rendering point.
func ErrorHandler(c *fiber.Ctx, err error) error {
	resp := Negotiate(err, IsAPIRequest(c.Path()))
	if resp.Status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}

	c.Status(resp.Status)
	if resp.JSON != nil {
		return c.JSON(resp.JSON)
	}
	if renderErr := c.Render(resp.View, resp.Bind); renderErr != nil {
		log.Printf("Error rendering %s page: %v", resp.View, renderErr)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(resp.Bind["Message"].(string))
	}
	return nil
}
