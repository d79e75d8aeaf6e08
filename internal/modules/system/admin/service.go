package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/moderation"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/cron"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
	"github.com/penlight/core/internal/pkg/storegate"
)

type Service struct {
	db    *gorm.DB
	gate  *storegate.Gate
	sched *cron.Scheduler
}

func NewService(db *gorm.DB, gate *storegate.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// SetScheduler attaches the background job scheduler so the dashboard can
// inspect and trigger jobs.
func (s *Service) SetScheduler(sched *cron.Scheduler) { s.sched = sched }

// CronJobs lists registered background jobs.
func (s *Service) CronJobs() []cron.JobSummary {
	if s.sched == nil {
		return nil
	}
	return s.sched.List()
}

// RunCronJob triggers a job immediately and reports its outcome.
func (s *Service) RunCronJob(ctx context.Context, name string) (cron.JobSummary, error) {
	if s.sched == nil {
		return cron.JobSummary{}, apperr.New(apperr.KindStore, "scheduler is not running")
	}
	if err := s.sched.Run(ctx, name); err != nil && errors.Is(err, cron.ErrUnknownJob) {
		return cron.JobSummary{}, apperr.New(apperr.KindNotFound, "no such job")
	}
	// A failing job is still a completed trigger; the failure shows up in
	// the summary rather than the response status.
	return s.sched.Status(name)
}

// ListUsers returns accounts for the dashboard, newest first, optionally
// filtered by role or status.
func (s *Service) ListUsers(role models.UserRole, status models.UserStatus, q pagination.Query) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.Model(&models.UserModel{}).Order("created_at DESC")
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.UserModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, response.Pagination{}, apperr.Wrap(apperr.KindStore, "failed to load users", err)
	}
	return items, pag, nil
}

// SetUserStatus bans or reinstates an account. Active↔banned is the one
// reversible transition in the system. Banning revokes nothing already
// written; it only blocks new posts.
func (s *Service) SetUserStatus(uid string, status models.UserStatus, actor *models.UserModel) (*models.UserModel, error) {
	if status != models.UserActive && status != models.UserBanned {
		return nil, apperr.Newf(apperr.KindValidation, "invalid status %q", status)
	}
	if actor != nil && actor.ID == uid {
		return nil, apperr.New(apperr.KindValidation, "you cannot change your own standing")
	}

	u, err := s.loadUser(uid)
	if err != nil {
		return nil, err
	}
	if u.Status == status {
		return u, nil
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}
	if err := s.db.Model(u).Update("status", status).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to update status", err)
	}
	u.Status = status
	return u, nil
}

// ToggleUserStatus flips active↔banned, the shape the dashboard's single
// ban button wants.
func (s *Service) ToggleUserStatus(uid string, actor *models.UserModel) (*models.UserModel, error) {
	u, err := s.loadUser(uid)
	if err != nil {
		return nil, err
	}
	return s.SetUserStatus(uid, moderation.ToggleUserStatus(u.Status), actor)
}

// SetUserRole assigns a role directly. Only the application flow and this
// admin edit can change roles; there is no self-service path.
func (s *Service) SetUserRole(uid string, role models.UserRole, actor *models.UserModel) (*models.UserModel, error) {
	if !moderation.ValidRole(role) {
		return nil, apperr.Newf(apperr.KindValidation, "invalid role %q", role)
	}
	if actor != nil && actor.ID == uid {
		return nil, apperr.New(apperr.KindValidation, "you cannot change your own role")
	}

	u, err := s.loadUser(uid)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}

	if err := s.gate.Acquire(); err != nil {
		return nil, err
	}
	if err := s.db.Model(u).Update("role", role).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to update role", err)
	}
	u.Role = role
	return u, nil
}

// Overview counts the moderation queues in one pass for the dashboard.
func (s *Service) Overview() (*Overview, error) {
	o := &Overview{}

	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&o.Users, &models.UserModel{}, nil},
		{&o.Articles, &models.ArticleModel{}, nil},
		{&o.PendingArticles, &models.ArticleModel{}, []interface{}{"status = ?", models.ArticlePending}},
		{&o.PendingReports, &models.ReportModel{}, []interface{}{"status = ?", models.ReportPending}},
		{&o.PendingApplications, &models.WriterApplicationModel{}, []interface{}{"status = ?", models.ApplicationPending}},
	}
	for _, c := range counts {
		tx := s.db.Model(c.model)
		if c.where != nil {
			tx = tx.Where(c.where[0], c.where[1:]...)
		}
		if err := tx.Count(c.dest).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to load overview", err)
		}
	}
	return o, nil
}

func (s *Service) loadUser(uid string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load user", err)
	}
	return &u, nil
}
