package server

import (
	"net/http"
	"time"

	"blog/internal/config"
	"blog/internal/handlers"
	"blog/internal/middleware"
	"blog/internal/repositories"
	"blog/internal/services"
	"blog/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New assembles the blog application on top of an open store.
// events may be nil, in which case no domain events are published.
func New(cfg config.Config, db *gorm.DB, events services.EventPublisher) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "blog",
		Views:        newViews(),
		ViewsLayout:  "layouts/main",
		ErrorHandler: middleware.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	metrics := middleware.NewMetrics()
	app.Use(metrics.Handler())

	// --- Assets ---
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(web.Static())}))
	app.Static("/media", cfg.MediaDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Get("/metrics", metrics.Expose())

	// Everything below runs inside a per-request database session.
	app.Use(middleware.DBSession(db))

	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	userService := services.NewUserService(userRepo, postRepo, events)
	postService := services.NewPostService(postRepo, userRepo, events)

	api := app.Group(middleware.APIPrefix)
	handlers.NewUserHandler(userService).RegisterRoutes(api)
	handlers.NewPostHandler(postService).RegisterRoutes(api)
	handlers.NewPageHandler(postService, userService).RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}

func newViews() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("truncate", handlers.Truncate)
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("January 02, 2006")
	})
	return engine
}
