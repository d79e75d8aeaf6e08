package report

import (
	"time"

	"github.com/penlight/core/internal/models"
)

// maxReasonLen caps report reasons after sanitization.
const maxReasonLen = 500

// Notifier receives new-report events for the admin dashboard.
type Notifier interface {
	ReportCreated(r *models.ReportModel)
}

type SubmitReportDTO struct {
	MessageID string `json:"message_id" binding:"required"`
	Reason    string `json:"reason"     binding:"required"`
}

type reportResponse struct {
	ID                string              `json:"id"`
	MessageID         string              `json:"message_id"`
	MessageContent    string              `json:"message_content"`
	ReportedUserID    string              `json:"reported_user_id"`
	ReportedUserName  string              `json:"reported_user_name"`
	ReportedUserEmail string              `json:"reported_user_email"`
	ReporterUserID    string              `json:"reporter_user_id"`
	ReporterUserName  string              `json:"reporter_user_name"`
	Reason            string              `json:"reason"`
	Status            models.ReportStatus `json:"status"`
	Created           time.Time           `json:"created"`
}

func toResponse(r *models.ReportModel) reportResponse {
	return reportResponse{
		ID:                r.ID,
		MessageID:         r.MessageID,
		MessageContent:    r.MessageContent,
		ReportedUserID:    r.ReportedUserID,
		ReportedUserName:  r.ReportedUserName,
		ReportedUserEmail: r.ReportedUserEmail,
		ReporterUserID:    r.ReporterUserID,
		ReporterUserName:  r.ReporterUserName,
		Reason:            r.Reason,
		Status:            r.Status,
		Created:           r.CreatedAt,
	}
}

func toListResponse(items []models.ReportModel) []reportResponse {
	out := make([]reportResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}
