package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/cron"
	"github.com/penlight/core/internal/pkg/querycache"
	"github.com/penlight/core/internal/pkg/storegate"
	"github.com/penlight/core/internal/pkg/throttle"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cache, err := querycache.New(15*time.Minute, 64, nil)
	require.NoError(t, err)
	limiter := throttle.New(100, 5*time.Minute, nil)

	return NewService(db, storegate.New(cache, limiter)), mock
}

func actingAdmin() *models.UserModel {
	u := &models.UserModel{Role: models.RoleAdmin, Status: models.UserActive, EmailVerified: true}
	u.ID = "admin-1"
	return u
}

func TestSetUserStatusBans(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "role"}).
			AddRow("user-1", "active", "user"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := svc.SetUserStatus("user-1", models.UserBanned, actingAdmin())
	require.NoError(t, err)
	require.Equal(t, models.UserBanned, u.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserStatusSelfRejected(t *testing.T) {
	svc, mock := newTestService(t)

	admin := actingAdmin()
	_, err := svc.SetUserStatus("admin-1", models.UserBanned, admin)
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserStatusNoopWhenUnchanged(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "role"}).
			AddRow("user-1", "banned", "user"))

	u, err := svc.SetUserStatus("user-1", models.UserBanned, actingAdmin())
	require.NoError(t, err)
	require.Equal(t, models.UserBanned, u.Status)
	require.NoError(t, mock.ExpectationsWereMet(), "an unchanged status must not write")
}

func TestSetUserRoleValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetUserRole("user-1", models.UserRole("superuser"), actingAdmin())
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSetUserRolePromotes(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "role"}).
			AddRow("user-1", "active", "user"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := svc.SetUserRole("user-1", models.RoleWriter, actingAdmin())
	require.NoError(t, err)
	require.Equal(t, models.RoleWriter, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCronJobsExposedToDashboard(t *testing.T) {
	svc, _ := newTestService(t)

	sched := cron.New()
	sched.Register(cron.Job{Name: "purge_sessions", Description: "purge", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	svc.SetScheduler(sched)

	jobs := svc.CronJobs()
	require.Len(t, jobs, 1)
	require.Equal(t, "purge_sessions", jobs[0].Name)
	require.Equal(t, cron.StatusIdle, jobs[0].Status)

	sum, err := svc.RunCronJob(context.Background(), "purge_sessions")
	require.NoError(t, err)
	require.Equal(t, cron.StatusOK, sum.Status)
	require.NotNil(t, sum.LastRunAt)
}

func TestRunCronJobUnknownName(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetScheduler(cron.New())

	_, err := svc.RunCronJob(context.Background(), "nope")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRunCronJobReportsFailureInSummary(t *testing.T) {
	svc, _ := newTestService(t)

	sched := cron.New()
	sched.Register(cron.Job{Name: "flaky", Interval: time.Hour, Fn: func(context.Context) error {
		return errors.New("store unavailable")
	}})
	svc.SetScheduler(sched)

	sum, err := svc.RunCronJob(context.Background(), "flaky")
	require.NoError(t, err)
	require.Equal(t, cron.StatusFailed, sum.Status)
	require.Equal(t, "store unavailable", sum.Error)
}
