package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

// purgeGrace is how long after expiry an anonymous link and its click trail
// are kept around for analytics before being removed for good.
const purgeGrace = 30 * 24 * time.Hour

type Scheduler struct {
	c     *cron.Cron
	log   *zap.Logger
	links *repository.LinkRepository
}

func NewScheduler(log *zap.Logger, links *repository.LinkRepository) *Scheduler {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)), cron.WithChain())
	return &Scheduler{c: c, log: log, links: links}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.c.AddFunc("0 3 * * *", func() {
		s.cleanup()
	})
	if err != nil {
		return err
	}
	s.c.Start()
	s.log.Info("maintenance scheduler started")

	// Run once on startup so expired links don't linger after downtime.
	go s.cleanup()

	go func() {
		<-ctx.Done()
		ctxStop := s.c.Stop()
		<-ctxStop.Done()
	}()
	return nil
}

func (s *Scheduler) cleanup() {
	now := time.Now()

	deactivated, err := s.links.DeactivateExpired(now)
	if err != nil {
		s.log.Error("failed to deactivate expired links", zap.Error(err))
	} else if deactivated > 0 {
		s.log.Info("deactivated expired links", zap.Int64("count", deactivated))
	}

	stale, err := s.links.FindAnonExpiredBefore(now.Add(-purgeGrace))
	if err != nil {
		s.log.Error("failed to list stale anonymous links", zap.Error(err))
		return
	}
	for i := range stale {
		link := &stale[i]
		if err := s.links.DeleteWithClicks(link); err != nil {
			s.log.Error("failed to purge stale link", zap.String("short_code", link.ShortCode), zap.Error(err))
			continue
		}
		s.log.Info("purged stale anonymous link", zap.String("short_code", link.ShortCode))
	}
}
