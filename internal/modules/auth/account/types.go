package account

import (
	"regexp"
	"time"

	"github.com/penlight/core/internal/models"
)

// displayNamePattern limits names to 3-20 word characters.
var displayNamePattern = regexp.MustCompile(`^\w{3,20}$`)

const minPasswordLen = 8

type RegisterDTO struct {
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileDTO struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}

type profileResponse struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	DisplayName   string            `json:"display_name"`
	Role          models.UserRole   `json:"role"`
	Status        models.UserStatus `json:"status"`
	PhotoURL      string            `json:"photo_url,omitempty"`
	EmailVerified bool              `json:"email_verified"`
	Created       time.Time         `json:"created"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	UA        string    `json:"ua"`
	Current   bool      `json:"current"`
	Created   time.Time `json:"created"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toProfile(u *models.UserModel) profileResponse {
	return profileResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
		Status:        u.Status,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		Created:       u.CreatedAt,
	}
}
