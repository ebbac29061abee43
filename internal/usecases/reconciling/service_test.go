package reconciling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	deals   []domain.Deal
	listErr error
	subErr  error
	broker  *stream.Broker[domain.DealEvent]
}

func (f *fakeStore) ListAllDeals(_ context.Context) ([]domain.Deal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	deals := make([]domain.Deal, len(f.deals))
	copy(deals, f.deals)
	return deals, nil
}

func (f *fakeStore) SubscribeDeals(handler func(domain.DealEvent)) (*stream.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.broker.Subscribe(handler), nil
}

type captureSink struct {
	mu      sync.Mutex
	signals []domain.Signal
}

func (c *captureSink) Publish(sig domain.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, sig)
}

func (c *captureSink) all() []domain.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Signal, len(c.signals))
	copy(out, c.signals)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Leaderboard: config.Leaderboard{
			HighlightWindowSeconds: 1,
			TickerSize:             8,
			EventBufferSize:        16,
		},
	}
}

func newTestService(t *testing.T, store *fakeStore, sink *captureSink) *Service {
	t.Helper()

	service := NewService(store, sink, testConfig())
	require.NoError(t, service.Start(context.Background()))
	t.Cleanup(service.Stop)
	return service
}

func deal(id, mitra string, amount int64, created string) domain.Deal {
	return domain.Deal{
		ID:              id,
		NamaMitra:       mitra,
		JumlahTransaksi: amount,
		Created:         created,
	}
}

func TestService_StartLoadsAndSortsNewestFirst(t *testing.T) {
	store := &fakeStore{
		deals: []domain.Deal{
			deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z"),
			deal("d3", "Citra", 300, "2026-02-01 12:00:00.000Z"),
			deal("d2", "Ani", 200, "2026-02-01 11:00:00.000Z"),
		},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})

	deals := service.Deals()
	require.Len(t, deals, 3)
	assert.Equal(t, "d3", deals[0].ID)
	assert.Equal(t, "d2", deals[1].ID)
	assert.Equal(t, "d1", deals[2].ID)

	snapshot := service.Snapshot()
	assert.Equal(t, StateSynced, snapshot.State)
	assert.Equal(t, 3, snapshot.Stats.TotalDeals)
	assert.Equal(t, int64(600), snapshot.Stats.TotalTransaksi)
	require.NotEmpty(t, snapshot.Leaderboard)
	assert.Equal(t, "Citra", snapshot.Leaderboard[0].NamaMitra)
}

func TestService_StartFailsOnLoadError(t *testing.T) {
	store := &fakeStore{
		listErr: errors.New("connection refused"),
		broker:  stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := NewService(store, &captureSink{}, testConfig())
	defer service.Stop()

	err := service.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, service.Snapshot().State)
}

func TestService_StartDegradesWhenSubscribeFails(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		subErr: errors.New("stream unavailable"),
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := NewService(store, &captureSink{}, testConfig())
	defer service.Stop()

	// The loaded data is still served, just without live updates
	require.NoError(t, service.Start(context.Background()))
	snapshot := service.Snapshot()
	assert.Equal(t, StateSynced, snapshot.State)
	require.Len(t, snapshot.Leaderboard, 1)
}

func TestService_CreateUpdatesBoardAndSignals(t *testing.T) {
	store := &fakeStore{broker: stream.NewBroker[domain.DealEvent](8)}
	defer store.broker.Close()
	sink := &captureSink{}

	service := newTestService(t, store, sink)

	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d1", "Budi", 1500000, "2026-02-01 10:00:00.000Z"),
	})

	snapshot := service.Snapshot()
	require.Len(t, snapshot.Leaderboard, 1)
	assert.Equal(t, "Budi", snapshot.Leaderboard[0].NamaMitra)
	assert.Equal(t, "Budi", snapshot.Highlight)
	require.Len(t, snapshot.Ticker, 1)
	assert.Contains(t, snapshot.Ticker[0], "Budi")
	assert.Contains(t, snapshot.Ticker[0], "Rp 1.500.000")

	signals := sink.all()
	require.Len(t, signals, 1)
	assert.Equal(t, domain.SignalNewDeal, signals[0].Kind)
	assert.Equal(t, "Budi", signals[0].NamaMitra)
}

func TestService_DuplicateCreateIsNoOp(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()
	sink := &captureSink{}

	service := newTestService(t, store, sink)
	before := service.Snapshot()

	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z"),
	})

	after := service.Snapshot()
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, before.Ticker, after.Ticker)
	assert.Equal(t, before.Highlight, after.Highlight)
	assert.Empty(t, sink.all())
}

func TestService_LeaderChangeSignal(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Ani", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()
	sink := &captureSink{}

	service := newTestService(t, store, sink)

	// Budi overtakes Ani
	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d2", "Budi", 200, "2026-02-01 11:00:00.000Z"),
	})
	// Ani adds a deal but stays second
	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d3", "Ani", 50, "2026-02-01 12:00:00.000Z"),
	})

	signals := sink.all()
	require.Len(t, signals, 2)

	assert.Equal(t, domain.SignalLeaderChange, signals[0].Kind)
	assert.Equal(t, "ani", signals[0].PreviousLeader)
	assert.Equal(t, "budi", signals[0].NewLeader)

	assert.Equal(t, domain.SignalNewDeal, signals[1].Kind)
	assert.Empty(t, signals[1].PreviousLeader)
}

func TestService_SameLeaderMoreDealsIsNotLeaderChange(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 500, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()
	sink := &captureSink{}

	service := newTestService(t, store, sink)

	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d2", "BUDI ", 100, "2026-02-01 11:00:00.000Z"),
	})

	signals := sink.all()
	require.Len(t, signals, 1)
	assert.Equal(t, domain.SignalNewDeal, signals[0].Kind)
}

func TestService_CreateThenDeleteRestoresState(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})
	before := service.Snapshot()

	record := deal("d2", "Ani", 900, "2026-02-01 11:00:00.000Z")
	service.apply(domain.DealEvent{Action: domain.ActionCreate, Record: record})
	service.apply(domain.DealEvent{Action: domain.ActionDelete, Record: record})

	after := service.Snapshot()
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, before.Leaderboard, after.Leaderboard)
}

func TestService_UpdateReplacesRecord(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})

	updated := deal("d1", "Budi", 750, "2026-02-01 10:00:00.000Z")
	service.apply(domain.DealEvent{Action: domain.ActionUpdate, Record: updated})

	snapshot := service.Snapshot()
	require.Len(t, snapshot.Leaderboard, 1)
	assert.Equal(t, int64(750), snapshot.Leaderboard[0].TotalTransaksi)
}

func TestService_UpdateUnknownIDIsNoOp(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})
	before := service.Snapshot()

	service.apply(domain.DealEvent{
		Action: domain.ActionUpdate,
		Record: deal("missing", "Budi", 999, "2026-02-01 10:00:00.000Z"),
	})

	assert.Equal(t, before.Leaderboard, service.Snapshot().Leaderboard)
}

func TestService_TickerIsCapped(t *testing.T) {
	store := &fakeStore{broker: stream.NewBroker[domain.DealEvent](8)}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})

	for i := 0; i < 12; i++ {
		service.apply(domain.DealEvent{
			Action: domain.ActionCreate,
			Record: deal(
				fmt.Sprintf("d%02d", i),
				fmt.Sprintf("Mitra %02d", i),
				int64(1000*(i+1)),
				fmt.Sprintf("2026-02-01 10:%02d:00.000Z", i),
			),
		})
	}

	snapshot := service.Snapshot()
	require.Len(t, snapshot.Ticker, 8)
	// Newest message first
	assert.Contains(t, snapshot.Ticker[0], "Mitra 11")
	assert.Contains(t, snapshot.Ticker[7], "Mitra 04")
}

func TestService_ReloadHealsDrift(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := newTestService(t, store, &captureSink{})

	// The store moves on without the reconciler seeing the event
	store.deals = append(store.deals, deal("d2", "Ani", 400, "2026-02-01 11:00:00.000Z"))

	require.NoError(t, service.Reload(context.Background()))

	snapshot := service.Snapshot()
	assert.Equal(t, 2, snapshot.Stats.TotalDeals)
	require.Len(t, snapshot.Leaderboard, 2)
	assert.Equal(t, "Ani", snapshot.Leaderboard[0].NamaMitra)
}

func TestService_StopIsIdempotent(t *testing.T) {
	store := &fakeStore{
		deals:  []domain.Deal{deal("d1", "Budi", 100, "2026-02-01 10:00:00.000Z")},
		broker: stream.NewBroker[domain.DealEvent](8),
	}
	defer store.broker.Close()

	service := NewService(store, &captureSink{}, testConfig())
	require.NoError(t, service.Start(context.Background()))

	service.Stop()
	service.Stop()

	assert.Equal(t, StateStopped, service.Snapshot().State)

	// Events after Stop are ignored
	before := service.Snapshot()
	service.apply(domain.DealEvent{
		Action: domain.ActionCreate,
		Record: deal("d9", "Ani", 900, "2026-02-01 12:00:00.000Z"),
	})
	assert.Equal(t, before.Stats, service.Snapshot().Stats)
}

func TestService_StopWithoutStart(t *testing.T) {
	store := &fakeStore{broker: stream.NewBroker[domain.DealEvent](8)}
	defer store.broker.Close()

	service := NewService(store, &captureSink{}, testConfig())
	assert.NotPanics(t, service.Stop)
}
