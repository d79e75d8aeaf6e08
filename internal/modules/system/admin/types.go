package admin

import (
	"time"

	"github.com/penlight/core/internal/models"
)

type SetStatusDTO struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

type SetRoleDTO struct {
	Role models.UserRole `json:"role" binding:"required"`
}

type userResponse struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	DisplayName   string            `json:"display_name"`
	Role          models.UserRole   `json:"role"`
	Status        models.UserStatus `json:"status"`
	EmailVerified bool              `json:"email_verified"`
	LastLoginTime *time.Time        `json:"last_login_time,omitempty"`
	LastLoginIP   string            `json:"last_login_ip,omitempty"`
	Created       time.Time         `json:"created"`
}

func toResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		LastLoginTime: u.LastLoginTime,
		LastLoginIP:   u.LastLoginIP,
		Created:       u.CreatedAt,
	}
}

func toListResponse(items []models.UserModel) []userResponse {
	out := make([]userResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}

// Overview summarizes moderation workload for the dashboard landing page.
type Overview struct {
	Users               int64 `json:"users"`
	Articles            int64 `json:"articles"`
	PendingArticles     int64 `json:"pending_articles"`
	PendingReports      int64 `json:"pending_reports"`
	PendingApplications int64 `json:"pending_applications"`
}
