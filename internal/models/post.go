package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry written by a single user.
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"type:varchar(100);not null"`
	Content    string    `gorm:"type:text;not null"`
	UserID     uint      `gorm:"not null;index"`
	DatePosted time.Time `gorm:"not null"`
}

func (Post) TableName() string { return "posts" }

// BeforeCreate stamps the post with the current UTC time unless one was set.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now().UTC()
	}
	return nil
}
