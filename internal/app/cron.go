package app

import (
	"context"
	"time"

	"github.com/sacred-word/core/internal/modules/export"
	appconfigs "github.com/sacred-word/core/internal/modules/system/configs"
	pkgcron "github.com/sacred-word/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, cfgSvc *appconfigs.Service, exportSvc *export.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "auto_export",
		Description: "সংরক্ষিত বাণী প্রতিদিন S3 তে ব্যাকআপ করা",
		Every:       24 * time.Hour,
		Run: func(ctx context.Context) error {
			if err := exportSvc.RunScheduled(ctx); err != nil {
				cronLogger.Warn("ব্যাকআপ ব্যর্থ হয়েছে", zap.Error(err))
				return err
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "refresh_configs",
		Description: "ডাটাবেস থেকে কনফিগ পুনরায় লোড করা",
		Every:       time.Hour,
		Run: func(ctx context.Context) error {
			cfgSvc.Invalidate()
			_, err := cfgSvc.Get()
			if err != nil {
				cronLogger.Warn("কনফিগ লোড ব্যর্থ হয়েছে", zap.Error(err))
			}
			return err
		},
	})
}
