package models

// DefaultImagePath is served when a user has no uploaded profile image.
const DefaultImagePath = "/static/profile_pics/default.jpg"

// User represents an author on the blog.
type User struct {
	ID        uint    `gorm:"primaryKey"`
	Username  string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email     string  `gorm:"type:varchar(120);uniqueIndex;not null"`
	ImageFile *string `gorm:"type:varchar(200)"`
	// Posts is only declared so the schema carries the cascading foreign key.
	// It is never preloaded; posts are looked up by user_id.
	Posts []Post `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

// ImagePath returns the public path of the user's profile image.
func (u User) ImagePath() string {
	if u.ImageFile != nil && *u.ImageFile != "" {
		return "/media/profile_pics/" + *u.ImageFile
	}
	return DefaultImagePath
}
