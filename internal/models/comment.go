package models

// CommentModel is a plain-text comment owned by a single article.
// Comments are not cascaded on article delete; orphans are simply never
// listed again (known limitation carried over from the original schema).
type CommentModel struct {
	Base
	ArticleID  string `json:"article_id"  gorm:"index;not null"`
	Text       string `json:"text"        gorm:"type:text;not null"`
	AuthorID   string `json:"author_id"   gorm:"index;not null"`
	AuthorName string `json:"author_name"`
}

func (CommentModel) TableName() string { return "comments" }
