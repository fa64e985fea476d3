package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the blog server.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	DBLogLevel     string
	MediaDir       string
	RabbitMQURL    string // empty disables event publication
	EventsQueue    string
}

// Load reads configuration from the environment, after loading envFiles (".env" by
// default) into it. Missing files are skipped; a file that cannot be parsed is an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
		log.Printf("Loaded configuration from %s", file)
	}
	return FromViper(viper.New()), nil
}

// FromViper applies defaults to v and builds a Config from it.
func FromViper(v *viper.Viper) Config {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "blog.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("MEDIA_DIR", "./media")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_QUEUE", "blog_events")
	v.AutomaticEnv()

	return Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		DBLogLevel:     v.GetString("DB_LOG_LEVEL"),
		MediaDir:       v.GetString("MEDIA_DIR"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		EventsQueue:    v.GetString("EVENTS_QUEUE"),
	}
}
