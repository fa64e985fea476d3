package schemas

import "blog/internal/models"

// UserBase is shared by the create and response shapes.
type UserBase struct {
	Username string `json:"username" validate:"min=1,max=100"`
	Email    string `json:"email" validate:"max=120,email"`
}

// UserCreate is the payload accepted by POST /api/users.
type UserCreate struct {
	UserBase
}

// UserResponse is what clients see of a stored user.
type UserResponse struct {
	UserBase
	ID        uint    `json:"id"`
	ImageFile *string `json:"image_file"`
	ImagePath string  `json:"image_path"`
}

// NewUserResponse converts a stored user into its response shape.
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		UserBase:  UserBase{Username: u.Username, Email: u.Email},
		ID:        u.ID,
		ImageFile: u.ImageFile,
		ImagePath: u.ImagePath(),
	}
}
