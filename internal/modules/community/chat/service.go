package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/moderation"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/sanitize"
	"github.com/penlight/core/internal/pkg/storegate"
)

type Service struct {
	db     *gorm.DB
	gate   *storegate.Gate
	broker *Broker
}

func NewService(db *gorm.DB, gate *storegate.Gate, broker *Broker) *Service {
	return &Service{db: db, gate: gate, broker: broker}
}

// Broker exposes the subscription broker for the gateway.
func (s *Service) Broker() *Broker { return s.broker }

// History returns the most recent limit messages in chronological order.
func (s *Service) History(limit int) ([]models.ChatMessageModel, error) {
	if limit <= 0 {
		limit = defaultHistory
	}
	if limit > maxHistory {
		limit = maxHistory
	}

	v, err := s.gate.Cached(fmt.Sprintf("chat:history:%d", limit), func() (interface{}, error) {
		// Newest-first window, then flipped so clients append naturally.
		var items []models.ChatMessageModel
		err := s.db.Model(&models.ChatMessageModel{}).
			Order("created_at DESC").
			Limit(limit).
			Find(&items).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load chat history", err)
		}
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ChatMessageModel), nil
}

// Post persists a chat message and fans it out to live subscribers.
func (s *Service) Post(dto *PostMessageDTO, author *models.UserModel) (*models.ChatMessageModel, error) {
	if err := moderation.CanPost(author); err != nil {
		return nil, err
	}

	text := sanitize.PlainText(dto.Text, maxMessageLen)
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "message must not be empty")
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	msg := models.ChatMessageModel{
		Text:       text,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to save message", err)
	}

	s.gate.InvalidateByPrefix("chat:history")
	s.broker.Publish(msg)
	return &msg, nil
}

// Get loads a single message; reports need the snapshot.
func (s *Service) Get(id string) (*models.ChatMessageModel, error) {
	var msg models.ChatMessageModel
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "message not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load message", err)
	}
	return &msg, nil
}
