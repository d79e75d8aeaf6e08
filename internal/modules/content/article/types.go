package article

import (
	"time"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/response"
)

const (
	maxTitleLen   = 100
	maxExcerptLen = 160
)

// Notifier receives moderation-queue events for live delivery to the
// admin dashboard. Wired to the gateway hub at startup; nil disables it.
type Notifier interface {
	ArticleSubmitted(a *models.ArticleModel)
}

type CreateArticleDTO struct {
	Title    string `json:"title"    binding:"required"`
	Text     string `json:"text"     binding:"required"`
	Excerpt  string `json:"excerpt"`
	ImageURL string `json:"image_url"`
}

type UpdateArticleDTO struct {
	Title    *string `json:"title"`
	Text     *string `json:"text"`
	Excerpt  *string `json:"excerpt"`
	ImageURL *string `json:"image_url"`
}

type articleResponse struct {
	ID         string               `json:"id"`
	Slug       string               `json:"slug"`
	Title      string               `json:"title"`
	Text       string               `json:"text,omitempty"`
	HTML       string               `json:"html,omitempty"`
	Excerpt    string               `json:"excerpt"`
	ImageURL   string               `json:"image_url,omitempty"`
	AuthorID   string               `json:"author_id"`
	AuthorName string               `json:"author_name"`
	Status     models.ArticleStatus `json:"status"`
	Created    time.Time            `json:"created"`
	Modified   time.Time            `json:"modified"`
}

func toResponse(a *models.ArticleModel, includeText bool, html string) articleResponse {
	r := articleResponse{
		ID:         a.ID,
		Slug:       a.Slug,
		Title:      a.Title,
		Excerpt:    a.Excerpt,
		ImageURL:   a.ImageURL,
		AuthorID:   a.AuthorID,
		AuthorName: a.AuthorName,
		Status:     a.Status,
		Created:    a.CreatedAt,
		Modified:   a.UpdatedAt,
	}
	if includeText {
		r.Text = a.Text
		r.HTML = html
	}
	return r
}

func toListResponse(items []models.ArticleModel) []articleResponse {
	out := make([]articleResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i], false, "")
	}
	return out
}

// listPage is the cached value for paginated listings. Cached pages are
// read-through projections; they are never written back to the store.
type listPage struct {
	Items      []models.ArticleModel
	Pagination response.Pagination
}
