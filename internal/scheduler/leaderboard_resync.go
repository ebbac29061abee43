// Package scheduler contains the background jobs that keep the leaderboard consistent.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
)

type LeaderboardResyncConfig struct {
	CronSchedule string
	Enabled      bool
}

// LeaderboardResyncService periodically reloads the in-memory leaderboard from
// storage, healing any drift caused by dropped change events.
type LeaderboardResyncService struct {
	scheduler           *gocron.Scheduler
	reconciler          *reconciling.Service
	config              LeaderboardResyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewLeaderboardResyncService(
	reconciler *reconciling.Service,
	cfg *config.Config,
) *LeaderboardResyncService {
	resyncConfig := LeaderboardResyncConfig{
		CronSchedule: cfg.Resync.CronSchedule,
		Enabled:      cfg.Resync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": resyncConfig.CronSchedule,
	}).Info("Leaderboard resync scheduler configuration loaded")

	return &LeaderboardResyncService{
		scheduler:  scheduler,
		reconciler: reconciler,
		config:     resyncConfig,
	}
}

func (s *LeaderboardResyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Leaderboard resync cron disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting leaderboard resync cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.ResyncLeaderboard(ctx); err != nil {
			logrus.WithError(err).Error("Leaderboard resync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule leaderboard resync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping leaderboard resync cron")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *LeaderboardResyncService) ResyncLeaderboard(ctx context.Context) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Leaderboard resync already running")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	logrus.Info("Starting leaderboard resync")

	if err := s.reconciler.Reload(ctx); err != nil {
		logrus.WithError(err).Error("Failed to reload leaderboard from storage")
		return err
	}

	logrus.Info("Leaderboard resync completed")

	return nil
}

// TriggerManualSync starts a resync outside the cron schedule.
func (s *LeaderboardResyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Leaderboard resync already in progress, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual leaderboard resync")
	go func() {
		if err := s.ResyncLeaderboard(ctx); err != nil {
			logrus.WithError(err).Error("Manual leaderboard resync failed")
		}
	}()
}

// GetStatus reports the current scheduler state.
func (s *LeaderboardResyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
