package article

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/moderation"
	"github.com/penlight/core/internal/modules/storage/image"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
	"github.com/penlight/core/internal/pkg/sanitize"
	"github.com/penlight/core/internal/pkg/slug"
	"github.com/penlight/core/internal/pkg/storegate"
)

type Service struct {
	db       *gorm.DB
	gate     *storegate.Gate
	notifier Notifier
}

func NewService(db *gorm.DB, gate *storegate.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// SetNotifier wires the live-delivery hub. Safe to leave unset in tests.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

func listKey(q pagination.Query) string {
	return fmt.Sprintf("articles:page:%d:%d", q.Page, q.Size)
}

func articleKey(slug string) string { return "article:" + slug }

func authorKey(uid string, q pagination.Query) string {
	return fmt.Sprintf("author-articles:%s:page:%d:%d", uid, q.Page, q.Size)
}

// List returns the public page of approved articles, newest first.
func (s *Service) List(q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	v, err := s.gate.Cached(listKey(q), func() (interface{}, error) {
		tx := s.db.Model(&models.ArticleModel{}).
			Where("status = ?", models.ArticleApproved).
			Order("created_at DESC")

		var items []models.ArticleModel
		pag, err := pagination.Paginate(tx, q, &items)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load articles", err)
		}
		return listPage{Items: items, Pagination: pag}, nil
	})
	if err != nil {
		return nil, response.Pagination{}, err
	}
	page := v.(listPage)
	return page.Items, page.Pagination, nil
}

// ListByAuthor returns an author's own articles in every status.
func (s *Service) ListByAuthor(uid string, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	v, err := s.gate.Cached(authorKey(uid, q), func() (interface{}, error) {
		tx := s.db.Model(&models.ArticleModel{}).
			Where("author_id = ?", uid).
			Order("created_at DESC")

		var items []models.ArticleModel
		pag, err := pagination.Paginate(tx, q, &items)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load your articles", err)
		}
		return listPage{Items: items, Pagination: pag}, nil
	})
	if err != nil {
		return nil, response.Pagination{}, err
	}
	page := v.(listPage)
	return page.Items, page.Pagination, nil
}

// ListPending returns the moderation queue, oldest first.
func (s *Service) ListPending(q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.db.Model(&models.ArticleModel{}).
		Where("status = ?", models.ArticlePending).
		Order("created_at ASC")

	var items []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, response.Pagination{}, apperr.Wrap(apperr.KindStore, "failed to load pending articles", err)
	}
	return items, pag, nil
}

// GetBySlug resolves an article by slug, falling back to a raw ID lookup
// for pre-slug links. Unapproved articles are visible to their author and
// to admins only; everyone else gets NotFound rather than a hint that the
// slug exists.
func (s *Service) GetBySlug(slugOrID string, viewer *models.UserModel) (*models.ArticleModel, error) {
	v, err := s.gate.Cached(articleKey(slugOrID), func() (interface{}, error) {
		var a models.ArticleModel
		err := s.db.Where("slug = ?", slugOrID).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = s.db.Where("id = ?", slugOrID).First(&a).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "article not found")
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load article", err)
		}
		return &a, nil
	})
	if err != nil {
		return nil, err
	}

	a := v.(*models.ArticleModel)
	if a.Status != models.ArticleApproved && !canView(a, viewer) {
		return nil, apperr.New(apperr.KindNotFound, "article not found")
	}
	return a, nil
}

// Create validates, assigns a slug and persists a new article. The initial
// status depends on the author's role.
func (s *Service) Create(dto *CreateArticleDTO, author *models.UserModel) (*models.ArticleModel, error) {
	if err := moderation.CanPost(author); err != nil {
		return nil, err
	}
	if !author.IsStaff() {
		return nil, apperr.New(apperr.KindForbidden, "only writers can publish articles")
	}

	title := strings.TrimSpace(dto.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(dto.Text)
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "article body must not be empty")
	}
	excerpt := sanitize.PlainText(dto.Excerpt, 0)
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return nil, apperr.Newf(apperr.KindValidation, "excerpt must be at most %d characters", maxExcerptLen)
	}
	if err := image.Validate(dto.ImageURL); err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	assigned, err := slug.Assign(title, s.slugExists, time.Now)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to assign slug", err)
	}

	a := models.ArticleModel{
		Slug:       assigned,
		Title:      title,
		Text:       text,
		Excerpt:    excerpt,
		ImageURL:   strings.TrimSpace(dto.ImageURL),
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Status:     moderation.InitialArticleStatus(author.Role),
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to save article", err)
	}

	s.invalidateFor(&a)
	if a.Status == models.ArticlePending && s.notifier != nil {
		s.notifier.ArticleSubmitted(&a)
	}
	return &a, nil
}

// Update edits an article in place. The slug never changes: links stay
// stable even when the title is rewritten.
func (s *Service) Update(id string, dto *UpdateArticleDTO, actor *models.UserModel) (*models.ArticleModel, error) {
	a, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !canEdit(a, actor) {
		return nil, apperr.New(apperr.KindForbidden, "you can only edit your own articles")
	}
	if err := moderation.CanEditArticle(a.Status); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		a.Title = title
	}
	if dto.Text != nil {
		text := strings.TrimSpace(*dto.Text)
		if text == "" {
			return nil, apperr.New(apperr.KindValidation, "article body must not be empty")
		}
		a.Text = text
	}
	if dto.Excerpt != nil {
		excerpt := sanitize.PlainText(*dto.Excerpt, 0)
		if utf8.RuneCountInString(excerpt) > maxExcerptLen {
			return nil, apperr.Newf(apperr.KindValidation, "excerpt must be at most %d characters", maxExcerptLen)
		}
		a.Excerpt = excerpt
	}
	if dto.ImageURL != nil {
		if err := image.Validate(*dto.ImageURL); err != nil {
			return nil, err
		}
		a.ImageURL = strings.TrimSpace(*dto.ImageURL)
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}
	if err := s.db.Save(a).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to update article", err)
	}

	s.invalidateFor(a)
	return a, nil
}

// Delete soft-deletes an article. The slug stays claimed by the deleted
// row and is never handed out again.
func (s *Service) Delete(id string, actor *models.UserModel) error {
	a, err := s.load(id)
	if err != nil {
		return err
	}
	if !canEdit(a, actor) {
		return apperr.New(apperr.KindForbidden, "you can only delete your own articles")
	}

	if err := s.gate.Acquire(); err != nil {
		return err
	}
	if err := s.db.Delete(a).Error; err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to delete article", err)
	}

	s.invalidateFor(a)
	return nil
}

// Review applies the admin moderation decision. The update is guarded by
// the current status so a concurrent decision cannot double-apply.
func (s *Service) Review(id string, next models.ArticleStatus) (*models.ArticleModel, error) {
	a, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := moderation.ReviewArticle(a.Status, next); err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}
	res := s.db.Model(&models.ArticleModel{}).
		Where("id = ? AND status = ?", a.ID, models.ArticlePending).
		Update("status", next)
	if res.Error != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to update article status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.KindConflict, "article was already reviewed")
	}

	a.Status = next
	s.invalidateFor(a)
	return a, nil
}

func (s *Service) load(id string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "article not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load article", err)
	}
	return &a, nil
}

// slugExists checks candidate slugs against every row ever written,
// including soft-deleted ones. Slugs are never recycled.
func (s *Service) slugExists(candidate string) (bool, error) {
	var count int64
	err := s.db.Unscoped().Model(&models.ArticleModel{}).
		Where("slug = ?", candidate).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) invalidateFor(a *models.ArticleModel) {
	s.gate.InvalidateByPrefix("articles:")
	s.gate.Invalidate(articleKey(a.Slug))
	s.gate.Invalidate(articleKey(a.ID))
	s.gate.InvalidateByPrefix("author-articles:" + a.AuthorID)
}

func validateTitle(title string) error {
	if title == "" {
		return apperr.New(apperr.KindValidation, "title must not be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Newf(apperr.KindValidation, "title must be at most %d characters", maxTitleLen)
	}
	return nil
}

func canEdit(a *models.ArticleModel, actor *models.UserModel) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || a.AuthorID == actor.ID
}

func canView(a *models.ArticleModel, viewer *models.UserModel) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || a.AuthorID == viewer.ID
}
