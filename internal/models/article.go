package models

// ArticleStatus is the moderation state of an article.
type ArticleStatus string

const (
	ArticlePending  ArticleStatus = "pending"
	ArticleApproved ArticleStatus = "approved"
	ArticleRejected ArticleStatus = "rejected"
)

// ArticleModel is a long-form post with a moderation lifecycle.
// Slug is unique for all time; a slug is never reassigned to another
// article even after the original is deleted (soft delete keeps the row).
type ArticleModel struct {
	Base
	Slug       string        `json:"slug"        gorm:"uniqueIndex;not null"`
	Title      string        `json:"title"       gorm:"not null"`
	Text       string        `json:"text"        gorm:"type:longtext"`
	Excerpt    string        `json:"excerpt"     gorm:"size:160"`
	ImageURL   string        `json:"image_url"`
	AuthorID   string        `json:"author_id"   gorm:"index;not null"`
	AuthorName string        `json:"author_name"`
	Status     ArticleStatus `json:"status"      gorm:"type:varchar(16);default:'pending';index"`
}

func (ArticleModel) TableName() string { return "articles" }
