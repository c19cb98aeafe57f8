package app

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	pkgcron "github.com/soldertec/site/internal/pkg/cron"
)

const (
	jobPublishScheduled = "publish-scheduled-posts"
	jobPurgePending     = "purge-pending-subscribers"
)

func (a *App) registerCronJobs(s *services) {
	logger := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        jobPublishScheduled,
		Description: "Publish scheduled posts whose date has passed",
		Interval:    time.Minute,
		RunOnStart:  true,
		Fn: func(ctx context.Context) error {
			n, err := s.posts.PublishDue(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("published scheduled posts", zap.Int64("count", n))
				a.purgeCache(ctx)
			}
			return nil
		},
	})

	ttl := a.cfg.Newsletter.PendingTTL
	if ttl <= 0 {
		return
	}
	a.sched.Register(pkgcron.Job{
		Name:        jobPurgePending,
		Description: "Delete newsletter subscriptions never confirmed within " + humanizeDuration(ttl),
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := s.newsletter.PurgeStalePending(ctx, ttl)
			if err != nil {
				return err
			}
			logger.Info("purged pending subscribers", zap.Int64("count", n))
			return nil
		},
	})
}

func (a *App) purgeCache(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Purge(ctx); err != nil {
		a.logger.Warn("purge http cache", zap.Error(err))
	}
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return strconv.Itoa(days) + " days"
	case d%time.Hour == 0:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	default:
		return d.String()
	}
}
