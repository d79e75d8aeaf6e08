package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgcron "github.com/penlight/core/internal/pkg/cron"
	sessionpkg "github.com/penlight/core/internal/pkg/session"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "Delete sessions expired or revoked more than 7 days ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.PurgeExpired(db, 7*24*time.Hour)
			if err != nil {
				cronLogger.Warn("session purge failed", zap.Error(err))
				return err
			}
			cronLogger.Info("session purge done", zap.Int64("deleted", n))
			return nil
		},
	})
}
