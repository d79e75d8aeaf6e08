package application

import (
	"time"

	"github.com/penlight/core/internal/models"
)

// maxFieldLen caps each free-text answer after sanitization.
const maxFieldLen = 2000

type SubmitApplicationDTO struct {
	Motivation string `json:"motivation" binding:"required"`
	Experience string `json:"experience" binding:"required"`
	Topics     string `json:"topics"     binding:"required"`
}

type DecideApplicationDTO struct {
	Approve bool `json:"approve"`
}

type applicationResponse struct {
	ID         string                   `json:"id"`
	UserID     string                   `json:"user_id"`
	UserName   string                   `json:"user_name"`
	UserEmail  string                   `json:"user_email"`
	Motivation string                   `json:"motivation"`
	Experience string                   `json:"experience"`
	Topics     string                   `json:"topics"`
	Status     models.ApplicationStatus `json:"status"`
	Created    time.Time                `json:"created"`
}

func toResponse(a *models.WriterApplicationModel) applicationResponse {
	return applicationResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		UserName:   a.UserName,
		UserEmail:  a.UserEmail,
		Motivation: a.Motivation,
		Experience: a.Experience,
		Topics:     a.Topics,
		Status:     a.Status,
		Created:    a.CreatedAt,
	}
}

func toListResponse(items []models.WriterApplicationModel) []applicationResponse {
	out := make([]applicationResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}
