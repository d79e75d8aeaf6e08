package chat

import (
	"time"

	"github.com/penlight/core/internal/models"
)

const (
	// maxMessageLen caps chat messages after sanitization.
	maxMessageLen = 500
	// defaultHistory is how many recent messages History returns.
	defaultHistory = 50
	maxHistory     = 200
)

type PostMessageDTO struct {
	Text string `json:"text" binding:"required"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func toResponse(m *models.ChatMessageModel) messageResponse {
	return messageResponse{
		ID:         m.ID,
		Text:       m.Text,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Created:    m.CreatedAt,
	}
}

func toListResponse(items []models.ChatMessageModel) []messageResponse {
	out := make([]messageResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}
