package models_test

import (
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUser_ImagePath(t *testing.T) {
	assert.Equal(t, "/static/profile_pics/default.jpg", models.User{}.ImagePath())

	empty := ""
	assert.Equal(t, models.DefaultImagePath, models.User{ImageFile: &empty}.ImagePath())

	file := "alice.png"
	assert.Equal(t, "/media/profile_pics/alice.png", models.User{ImageFile: &file}.ImagePath())
}
