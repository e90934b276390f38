package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

// NoticeFetchFailed is shown alongside a stale listing.
const NoticeFetchFailed = "Failed to fetch deals"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stealdeals",
	Subsystem: "catalog",
	Name:      "fetch_failures_total",
	Help:      "Failed attempts to load the deal collection.",
})

type DealRepository interface {
	List(ctx context.Context) ([]entity.Deal, error)
}

type Listing struct {
	Trending []entity.Deal
	Deals    []entity.Deal
	Notice   string
}

// Store keeps the last successfully fetched deal collection. A failed fetch
// never replaces or merges into it.
type Store struct {
	repo DealRepository

	mu     sync.RWMutex
	deals  []entity.Deal
	loaded bool
}

func NewStore(repo DealRepository) *Store {
	return &Store{repo: repo}
}

// Refresh loads all deals, newest first, and swaps the snapshot.
func (s *Store) Refresh(ctx context.Context) ([]entity.Deal, error) {
	deals, err := s.repo.List(ctx)
	if err != nil {
		fetchFailures.Inc()

		return nil, fmt.Errorf("dealRepo.List: %w", err)
	}

	s.mu.Lock()
	s.deals = deals
	s.loaded = true
	s.mu.Unlock()

	logger(ctx).Debug("deal snapshot refreshed", slog.Int(logx.FieldCount, len(deals)))

	return slices.Clone(deals), nil
}

// Snapshot returns a copy of the current collection and whether any fetch
// has succeeded yet.
func (s *Store) Snapshot() ([]entity.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.deals), s.loaded
}

// Listing re-fetches and derives both views. When the fetch fails but an
// earlier snapshot exists, the views are built from it and Notice is set.
func (s *Store) Listing(ctx context.Context, q Query) (Listing, error) {
	deals, err := s.Refresh(ctx)
	notice := ""

	if err != nil {
		var loaded bool

		deals, loaded = s.Snapshot()
		if !loaded {
			return Listing{}, domain.WithMessage(err, NoticeFetchFailed)
		}

		logger(ctx).Warn("serving stale deal snapshot", logx.Error(err))

		notice = NoticeFetchFailed
	}

	return Listing{
		Trending: Trending(deals),
		Deals:    Filter(deals, q),
		Notice:   notice,
	}, nil
}

// BumpClicks adds delta to the cached counter of one deal, if present.
func (s *Store) BumpClicks(id value.DealID, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals[i].Clicks += delta

			return
		}
	}
}

// SetClicks records the authoritative counter returned by the database.
func (s *Store) SetClicks(id value.DealID, clicks int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals[i].Clicks = clicks

			return
		}
	}
}
