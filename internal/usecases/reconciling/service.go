// Package reconciling keeps an authoritative in-memory copy of the deal set
// synchronized with the change stream and drives re-aggregation plus the
// derived presentation signals (highlight pulse, ticker feed, leader-change
// detection).
package reconciling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/ranking"
	"github.com/startfranchise/expo-leaderboard-api/pkg/utils"
)

// DealStore is the record-store surface the reconciler consumes.
type DealStore interface {
	ListAllDeals(ctx context.Context) ([]domain.Deal, error)
	SubscribeDeals(handler func(domain.DealEvent)) (*stream.Subscription, error)
}

// SignalSink receives the derived signals emitted after create events.
type SignalSink interface {
	Publish(domain.Signal)
}

// State tracks the subscription lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSynced        State = "synced"
	StateFailed        State = "failed"
	StateStopped       State = "stopped"
)

// Snapshot is the read-only view served to the leaderboard endpoints.
type Snapshot struct {
	State       State                     `json:"state"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	Stats       domain.LeaderboardStats   `json:"stats"`
	Ticker      []string                  `json:"ticker"`
	Highlight   string                    `json:"highlight,omitempty"`
}

type Service struct {
	store   DealStore
	signals SignalSink

	highlightWindow time.Duration
	tickerSize      int

	mu           sync.RWMutex
	state        State
	deals        []domain.Deal
	board        []domain.LeaderboardEntry
	stats        domain.LeaderboardStats
	ticker       []string
	highlight    string
	highlightSeq int
	stopped      bool
	sub          *stream.Subscription

	events chan domain.DealEvent
	done   chan struct{}
	stop   sync.Once
}

func NewService(store DealStore, signals SignalSink, cfg *config.Config) *Service {
	return &Service{
		store:           store,
		signals:         signals,
		highlightWindow: cfg.Leaderboard.HighlightWindow(),
		tickerSize:      cfg.Leaderboard.TickerSize,
		state:           StateUninitialized,
		events:          make(chan domain.DealEvent, cfg.Leaderboard.EventBufferSize),
		done:            make(chan struct{}),
	}
}

// Start performs the full initial load, then attaches to the change stream.
// A failed load leaves the service in a terminal failed state and is returned
// to the caller. A failed subscribe is only logged: the loaded data stays
// served, merely without live updates.
func (s *Service) Start(ctx context.Context) error {
	deals, err := s.store.ListAllDeals(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		return errors.Wrap(err, "initial deal load failed")
	}

	// The store's own ordering is not trusted to be chronological.
	sortDealsByCreatedDesc(deals)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.deals = deals
	s.recomputeLocked()
	s.state = StateSynced
	s.mu.Unlock()

	go s.loop()

	sub, err := s.store.SubscribeDeals(s.enqueue)
	if err != nil {
		logrus.WithError(err).Warn("deal stream subscription failed; leaderboard degrades to non-live")
		return nil
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		sub.Unsubscribe()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()

	return nil
}

// Stop cancels the stream subscription and freezes the authoritative set.
// Idempotent, and safe to call even when Start never ran or failed.
func (s *Service) Stop() {
	s.stop.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.state = StateStopped
		sub := s.sub
		s.sub = nil
		s.mu.Unlock()

		if sub != nil {
			sub.Unsubscribe()
		}
		close(s.done)
	})
}

// Snapshot returns the current leaderboard view.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board := make([]domain.LeaderboardEntry, len(s.board))
	copy(board, s.board)
	ticker := make([]string, len(s.ticker))
	copy(ticker, s.ticker)

	return Snapshot{
		State:       s.state,
		Leaderboard: board,
		Stats:       s.stats,
		Ticker:      ticker,
		Highlight:   s.highlight,
	}
}

// Deals returns the authoritative deal list, newest first.
func (s *Service) Deals() []domain.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := make([]domain.Deal, len(s.deals))
	copy(deals, s.deals)
	return deals
}

// Reload re-fetches the full deal set and rebuilds the aggregate. Used by
// the resync scheduler to heal any missed stream event.
func (s *Service) Reload(ctx context.Context) error {
	deals, err := s.store.ListAllDeals(ctx)
	if err != nil {
		return errors.Wrap(err, "leaderboard reload failed")
	}

	sortDealsByCreatedDesc(deals)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.deals = deals
	s.recomputeLocked()
	s.state = StateSynced

	return nil
}

// enqueue hands a stream event to the apply loop without blocking the
// publisher. The buffer is sized generously for the bounded dataset; a
// dropped event is healed by the next resync.
func (s *Service) enqueue(ev domain.DealEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	default:
		logrus.WithField("deal_id", ev.Record.ID).Warn("reconciler event buffer full, dropping event")
	}
}

// loop applies events one at a time; a handler runs to completion before the
// next event is processed, so the authoritative set never sees concurrent
// mutation.
func (s *Service) loop() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.apply(ev)
		}
	}
}

func (s *Service) apply(ev domain.DealEvent) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	var signal *domain.Signal

	switch ev.Action {
	case domain.ActionCreate:
		signal = s.applyCreateLocked(ev.Record)
	case domain.ActionUpdate:
		s.applyUpdateLocked(ev.Record)
	case domain.ActionDelete:
		s.applyDeleteLocked(ev.Record.ID)
	default:
		logrus.WithField("action", ev.Action).Warn("ignoring unknown stream action")
	}
	s.mu.Unlock()

	if signal != nil && s.signals != nil {
		s.signals.Publish(*signal)
	}
}

// applyCreateLocked inserts the record unless its id is already present
// (duplicate delivery is a no-op) and derives the celebration signal by
// comparing the top-ranked mitra before and after, by normalized key rather
// than by slice position.
func (s *Service) applyCreateLocked(record domain.Deal) *domain.Signal {
	if s.indexOfLocked(record.ID) >= 0 {
		return nil
	}

	previousTop := topMitraKey(s.board)

	s.deals = append([]domain.Deal{record}, s.deals...)
	s.recomputeLocked()

	newTop := topMitraKey(s.board)

	s.pulseHighlightLocked(record.NamaMitra)
	message := tickerMessage(record)
	s.pushTickerLocked(message)

	signal := &domain.Signal{
		Kind:      domain.SignalNewDeal,
		NamaMitra: record.NamaMitra,
		Message:   message,
	}
	if previousTop != "" && newTop != "" && previousTop != newTop {
		signal.Kind = domain.SignalLeaderChange
		signal.PreviousLeader = previousTop
		signal.NewLeader = newTop
	}

	return signal
}

func (s *Service) applyUpdateLocked(record domain.Deal) {
	idx := s.indexOfLocked(record.ID)
	if idx < 0 {
		return
	}

	s.deals[idx] = record
	s.recomputeLocked()
}

func (s *Service) applyDeleteLocked(id string) {
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return
	}

	s.deals = append(s.deals[:idx], s.deals[idx+1:]...)
	s.recomputeLocked()
}

func (s *Service) recomputeLocked() {
	s.board = ranking.BuildLeaderboard(s.deals)
	s.stats = ranking.Totals(s.deals)
}

func (s *Service) indexOfLocked(id string) int {
	for i := range s.deals {
		if s.deals[i].ID == id {
			return i
		}
	}
	return -1
}

// pulseHighlightLocked marks the mitra of a fresh deal and schedules the
// clear. The sequence counter keeps an older timer from wiping a newer pulse.
func (s *Service) pulseHighlightLocked(namaMitra string) {
	s.highlight = namaMitra
	s.highlightSeq++
	seq := s.highlightSeq

	time.AfterFunc(s.highlightWindow, func() {
		s.mu.Lock()
		if s.highlightSeq == seq {
			s.highlight = ""
		}
		s.mu.Unlock()
	})
}

func (s *Service) pushTickerLocked(message string) {
	s.ticker = append([]string{message}, s.ticker...)
	if len(s.ticker) > s.tickerSize {
		s.ticker = s.ticker[:s.tickerSize]
	}
}

func tickerMessage(record domain.Deal) string {
	brand := ""
	if record.BrandName != "" {
		brand = fmt.Sprintf(" (%s)", record.BrandName)
	}
	return fmt.Sprintf("🎉 %s%s — Rp %s", record.NamaMitra, brand, utils.FormatRupiah(record.JumlahTransaksi))
}

func topMitraKey(board []domain.LeaderboardEntry) string {
	if len(board) == 0 {
		return ""
	}
	return ranking.NormalizeMitraKey(board[0].NamaMitra)
}

func sortDealsByCreatedDesc(deals []domain.Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Created > deals[j].Created
	})
}
