package comment

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/moderation"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
	"github.com/penlight/core/internal/pkg/sanitize"
	"github.com/penlight/core/internal/pkg/storegate"
)

type Service struct {
	db   *gorm.DB
	gate *storegate.Gate
}

func NewService(db *gorm.DB, gate *storegate.Gate) *Service {
	return &Service{db: db, gate: gate}
}

func listKey(articleID string, q pagination.Query) string {
	return fmt.Sprintf("comments:%s:page:%d:%d", articleID, q.Page, q.Size)
}

// ListByArticle returns a page of comments for one article, newest first.
func (s *Service) ListByArticle(articleID string, q pagination.Query) ([]models.CommentModel, response.Pagination, error) {
	v, err := s.gate.Cached(listKey(articleID, q), func() (interface{}, error) {
		tx := s.db.Model(&models.CommentModel{}).
			Where("article_id = ?", articleID).
			Order("created_at DESC")

		var items []models.CommentModel
		pag, err := pagination.Paginate(tx, q, &items)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load comments", err)
		}
		return listPage{Items: items, Pagination: pag}, nil
	})
	if err != nil {
		return nil, response.Pagination{}, err
	}
	page := v.(listPage)
	return page.Items, page.Pagination, nil
}

// Create posts a comment on an approved article.
func (s *Service) Create(articleID string, dto *CreateCommentDTO, author *models.UserModel) (*models.CommentModel, error) {
	if err := moderation.CanPost(author); err != nil {
		return nil, err
	}

	text := sanitize.PlainText(dto.Text, maxCommentLen)
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "comment must not be empty")
	}

	var article models.ArticleModel
	if err := s.db.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "article not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load article", err)
	}
	if article.Status != models.ArticleApproved {
		return nil, apperr.New(apperr.KindNotFound, "article not found")
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	cm := models.CommentModel{
		ArticleID:  article.ID,
		Text:       text,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
	}
	if err := s.db.Create(&cm).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to save comment", err)
	}

	s.invalidateFor(&article)
	return &cm, nil
}

// Delete removes a comment. The comment author, the article author and
// admins may delete.
func (s *Service) Delete(id string, actor *models.UserModel) error {
	var cm models.CommentModel
	if err := s.db.First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "comment not found")
		}
		return apperr.Wrap(apperr.KindStore, "failed to load comment", err)
	}

	if actor == nil {
		return apperr.New(apperr.KindForbidden, "you cannot delete this comment")
	}
	allowed := actor.IsAdmin() || cm.AuthorID == actor.ID

	// The article author moderates their own comment section.
	var article models.ArticleModel
	if err := s.db.First(&article, "id = ?", cm.ArticleID).Error; err == nil {
		allowed = allowed || article.AuthorID == actor.ID
	}
	if !allowed {
		return apperr.New(apperr.KindForbidden, "you cannot delete this comment")
	}

	if err := s.gate.Acquire(); err != nil {
		return err
	}
	if err := s.db.Delete(&cm).Error; err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to delete comment", err)
	}

	if article.ID != "" {
		s.invalidateFor(&article)
	} else {
		s.gate.InvalidateByPrefix("comments:" + cm.ArticleID)
	}
	return nil
}

func (s *Service) invalidateFor(article *models.ArticleModel) {
	s.gate.InvalidateByPrefix("comments:" + article.ID)
	s.gate.Invalidate("article:" + article.Slug)
	s.gate.Invalidate("article:" + article.ID)
}
