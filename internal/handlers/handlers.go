package handlers

import (
	"errors"
	"log"

	"blog/internal/schemas"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// paramID reads an integer path parameter. Non-positive IDs never match a row.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil {
		return 0, schemas.PathError(name)
	}
	if id < 0 {
		return 0, nil
	}
	return uint(id), nil
}

// bindBody decodes the JSON body into out and validates it.
func bindBody(c *fiber.Ctx, validate *schemas.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error decoding %s %s body: %v", c.Method(), c.Path(), err)
		return schemas.BodyError(err)
	}
	return validate.Struct(out)
}

// httpError maps service errors onto the status and message clients see.
// Anything unrecognised is passed through and ends up as an internal error.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found.")
	case errors.Is(err, services.ErrPostNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Post not found.")
	case errors.Is(err, services.ErrUsernameTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Username already exists.")
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Email already registered.")
	default:
		return err
	}
}
