package report

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
	db       *gorm.DB
	gate     *storegate.Gate
	notifier Notifier
}

func NewService(db *gorm.DB, gate *storegate.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// SetNotifier wires the live-delivery hub. Safe to leave unset in tests.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// Submit files a report against a chat message. The message text and the
// reported user's identity are snapshotted so the report stays meaningful
// after the message or account goes away.
func (s *Service) Submit(dto *SubmitReportDTO, reporter *models.UserModel) (*models.ReportModel, error) {
	if err := moderation.CanPost(reporter); err != nil {
		return nil, err
	}

	reason := sanitize.PlainText(dto.Reason, maxReasonLen)
	if reason == "" {
		return nil, apperr.New(apperr.KindValidation, "a reason is required")
	}

	var msg models.ChatMessageModel
	if err := s.db.First(&msg, "id = ?", dto.MessageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "message not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load message", err)
	}
	if msg.AuthorID == reporter.ID {
		return nil, apperr.New(apperr.KindValidation, "you cannot report your own message")
	}

	var reported models.UserModel
	if err := s.db.First(&reported, "id = ?", msg.AuthorID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindStore, "failed to load reported user", err)
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}

	r := models.ReportModel{
		MessageID:         msg.ID,
		MessageContent:    msg.Text,
		ReportedUserID:    msg.AuthorID,
		ReportedUserName:  reported.DisplayName,
		ReportedUserEmail: reported.Email,
		ReporterUserID:    reporter.ID,
		ReporterUserName:  reporter.DisplayName,
		Reason:            reason,
		Status:            models.ReportPending,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to save report", err)
	}

	if s.notifier != nil {
		s.notifier.ReportCreated(&r)
	}
	return &r, nil
}

// List returns reports for the admin queue, optionally filtered by status,
// oldest pending work first.
func (s *Service) List(status models.ReportStatus, q pagination.Query) ([]models.ReportModel, response.Pagination, error) {
	tx := s.db.Model(&models.ReportModel{}).Order("created_at ASC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.ReportModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, response.Pagination{}, apperr.Wrap(apperr.KindStore, "failed to load reports", err)
	}
	return items, pag, nil
}

// Resolve closes a report. Resolution is terminal and carries no side
// effect on the reported user; banning is a separate admin action. The
// update is status-guarded so a concurrent resolve cannot double-apply.
func (s *Service) Resolve(id string) (*models.ReportModel, error) {
	var r models.ReportModel
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "report not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load report", err)
	}
	if err := moderation.ResolveReport(r.Status); err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}
	res := s.db.Model(&models.ReportModel{}).
		Where("id = ? AND status = ?", r.ID, models.ReportPending).
		Update("status", models.ReportResolved)
	if res.Error != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to resolve report", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.KindConflict, "report is already resolved")
	}

	r.Status = models.ReportResolved
	return &r, nil
}
