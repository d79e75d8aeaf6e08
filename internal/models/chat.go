package models

// ChatMessageModel is a message in the single global chat room.
type ChatMessageModel struct {
	Base
	Text       string `json:"text"        gorm:"type:text;not null"`
	AuthorID   string `json:"author_id"   gorm:"index;not null"`
	AuthorName string `json:"author_name"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }
