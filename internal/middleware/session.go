package middleware

import (
	"log"

	"blog/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DBSession gives every request its own database session and releases it
// when the request ends, whether the handler returned an error or panicked.
func DBSession(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := database.NewSession(c.UserContext(), db)
		defer func() {
			if err := sess.Close(); err != nil {
				log.Printf("Error releasing database session for %s %s: %v", c.Method(), c.Path(), err)
			}
		}()

		c.SetUserContext(database.WithSession(c.UserContext(), sess))
		return c.Next()
	}
}
