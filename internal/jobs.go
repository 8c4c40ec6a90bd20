package internal

import (
	"context"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

const (
	sessionsCleanupSchedule = "@every 8h"
	historyPruneSchedule    = "@daily"
)

func (s *Server) scheduleJobs(ctx context.Context) *cron.Cron {
	c := cron.New()

	if err := c.AddFunc(sessionsCleanupSchedule, func() {
		s.authService.ScanAndClean(ctx)
	}); err != nil {
		log.Errorf("schedule admin sessions cleanup: %s", err)
	}

	if err := c.AddFunc(historyPruneSchedule, func() {
		s.pruneHistory(ctx)
	}); err != nil {
		log.Errorf("schedule history prune: %s", err)
	}

	return c
}

func (s *Server) pruneHistory(ctx context.Context) {
	deleted, err := s.profilesService.PruneHistory(ctx, s.config.HistoryKeep)
	if err != nil {
		log.Errorf("prune profiles history: %s", err)
		return
	}
	log.Debugf("pruned %d old profile revisions (keeping %d per profile)", deleted, s.config.HistoryKeep)
}
