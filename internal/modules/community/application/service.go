package application

import (
	"errors"

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

// Submit files a writer application. One open application per user.
func (s *Service) Submit(dto *SubmitApplicationDTO, applicant *models.UserModel) (*models.WriterApplicationModel, error) {
	if err := moderation.CanPost(applicant); err != nil {
		return nil, err
	}
	if applicant.IsStaff() {
		return nil, apperr.New(apperr.KindValidation, "you can already publish articles")
	}

	motivation := sanitize.PlainText(dto.Motivation, maxFieldLen)
	experience := sanitize.PlainText(dto.Experience, maxFieldLen)
	topics := sanitize.PlainText(dto.Topics, maxFieldLen)
	if motivation == "" || experience == "" || topics == "" {
		return nil, apperr.New(apperr.KindValidation, "all three answers are required")
	}

	var open int64
	err := s.db.Model(&models.WriterApplicationModel{}).
		Where("user_id = ? AND status = ?", applicant.ID, models.ApplicationPending).
		Count(&open).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to check open applications", err)
	}
	if open > 0 {
		return nil, apperr.New(apperr.KindConflict, "you already have an application under review")
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	a := models.WriterApplicationModel{
		UserID:     applicant.ID,
		UserName:   applicant.DisplayName,
		UserEmail:  applicant.Email,
		Motivation: motivation,
		Experience: experience,
		Topics:     topics,
		Status:     models.ApplicationPending,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to save application", err)
	}
	return &a, nil
}

// Mine returns the caller's applications, newest first.
func (s *Service) Mine(uid string) ([]models.WriterApplicationModel, error) {
	var items []models.WriterApplicationModel
	err := s.db.Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to load applications", err)
	}
	return items, nil
}

// List returns applications for the admin queue, optionally filtered by
// status, oldest first.
func (s *Service) List(status models.ApplicationStatus, q pagination.Query) ([]models.WriterApplicationModel, response.Pagination, error) {
	tx := s.db.Model(&models.WriterApplicationModel{}).Order("created_at ASC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.WriterApplicationModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, response.Pagination{}, apperr.Wrap(apperr.KindStore, "failed to load applications", err)
	}
	return items, pag, nil
}

// Decide approves or rejects a pending application. Approval promotes the
// applicant to writer inside the same transaction, so the decision and the
// role change land together or not at all.
func (s *Service) Decide(id string, approve bool) (*models.WriterApplicationModel, error) {
	var a models.WriterApplicationModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "application not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load application", err)
	}

	next := models.ApplicationRejected
	if approve {
		next = models.ApplicationApproved
	}
	if err := moderation.DecideApplication(a.Status, next); err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WriterApplicationModel{}).
			Where("id = ? AND status = ?", a.ID, models.ApplicationPending).
			Update("status", next)
		if res.Error != nil {
			return apperr.Wrap(apperr.KindStore, "failed to update application", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindConflict, "application was already decided")
		}

		if !approve {
			return nil
		}
		// Promote user→writer only; an admin applicant (shouldn't exist,
		// Submit blocks staff) must not be demoted by an approval.
		return tx.Model(&models.UserModel{}).
			Where("id = ? AND role = ?", a.UserID, models.RoleUser).
			Update("role", models.RoleWriter).Error
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to decide application", err)
	}

	a.Status = next
	return &a, nil
}
