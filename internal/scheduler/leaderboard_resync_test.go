package scheduler

import (
	"context"
	"testing"

	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStore struct {
	deals  []domain.Deal
	broker *stream.Broker[domain.DealEvent]
}

func (s *staticStore) ListAllDeals(_ context.Context) ([]domain.Deal, error) {
	deals := make([]domain.Deal, len(s.deals))
	copy(deals, s.deals)
	return deals, nil
}

func (s *staticStore) SubscribeDeals(handler func(domain.DealEvent)) (*stream.Subscription, error) {
	return s.broker.Subscribe(handler), nil
}

type noopSink struct{}

func (noopSink) Publish(domain.Signal) {}

func newReconciler(t *testing.T, store *staticStore, cfg *config.Config) *reconciling.Service {
	t.Helper()

	reconciler := reconciling.NewService(store, noopSink{}, cfg)
	require.NoError(t, reconciler.Start(context.Background()))
	t.Cleanup(reconciler.Stop)
	return reconciler
}

func TestLeaderboardResyncService_StartDisabled(t *testing.T) {
	cfg := &config.Config{
		Leaderboard: config.Leaderboard{TickerSize: 8, EventBufferSize: 16},
		Resync:      config.Resync{CronSchedule: "*/30 * * * *", Enabled: false},
	}

	store := &staticStore{broker: stream.NewBroker[domain.DealEvent](8)}
	defer store.broker.Close()

	service := NewLeaderboardResyncService(newReconciler(t, store, cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Disabled config means no cron gets scheduled, but Start still succeeds
	require.NoError(t, service.Start(ctx))
}

func TestLeaderboardResyncService_ResyncPicksUpNewDeals(t *testing.T) {
	cfg := &config.Config{
		Leaderboard: config.Leaderboard{TickerSize: 8, EventBufferSize: 16},
		Resync:      config.Resync{CronSchedule: "*/30 * * * *", Enabled: true},
	}

	store := &staticStore{
		deals: []domain.Deal{
			{ID: "d1", NamaMitra: "Budi", JumlahTransaksi: 100, Created: "2026-02-01 10:00:00.000Z"},
		},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	reconciler := newReconciler(t, store, cfg)
	service := NewLeaderboardResyncService(reconciler, cfg)

	// A deal written behind the reconciler's back
	store.deals = append(store.deals, domain.Deal{
		ID: "d2", NamaMitra: "Ani", JumlahTransaksi: 500, Created: "2026-02-01 11:00:00.000Z",
	})

	require.NoError(t, service.ResyncLeaderboard(context.Background()))

	snapshot := reconciler.Snapshot()
	assert.Equal(t, 2, snapshot.Stats.TotalDeals)

	status := service.GetStatus()
	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "*/30 * * * *", status["sync_cron"])
	assert.False(t, service.lastSyncCompletedAt.IsZero())
}
