package comment

import (
	"time"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/response"
)

// maxCommentLen caps comment bodies after sanitization.
const maxCommentLen = 1000

type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func toResponse(c *models.CommentModel) commentResponse {
	return commentResponse{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		Text:       c.Text,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

func toListResponse(items []models.CommentModel) []commentResponse {
	out := make([]commentResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}

type listPage struct {
	Items      []models.CommentModel
	Pagination response.Pagination
}
