package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/server"
	"blog/internal/services"
	"blog/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp opens the store, prepares the schema and, when a broker URL is configured,
// connects the event publisher. The returned cleanup releases all of them.
func NewApp(cfg config.Config) (*fiber.App, func(), error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}

	var (
		events   services.EventPublisher
		mqClient *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue})
		if err != nil {
			database.Close(db)
			return nil, nil, err
		}
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, domain events are disabled")
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		log.Printf("Warning: could not create media directory %s: %v", cfg.MediaDir, err)
	}

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		}
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	return server.New(cfg, db, events), cleanup, nil
}
