package deal

import (
	"context"
	"fmt"
	"log/slog"

	"git.appkode.ru/pub/go/failure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/logx"
)

const msgClickFailed = "Could not update click count"

// ClickMode decides whether the redirect waits for the counter update.
type ClickMode string

const (
	// ClickModeSync increments first and redirects only on success.
	ClickModeSync ClickMode = "sync"
	// ClickModeAsync queues the increment and redirects right away. Jobs
	// that exhaust their retries are dropped, so counters may undercount.
	ClickModeAsync ClickMode = "async"
)

func ParseClickMode(s string) (ClickMode, error) {
	switch m := ClickMode(s); m {
	case ClickModeSync, ClickModeAsync:
		return m, nil
	default:
		return "", fmt.Errorf("unknown click mode %q", s)
	}
}

//nolint:gochecknoglobals
var clicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stealdeals",
	Subsystem: "deals",
	Name:      "clicks_total",
	Help:      "Buy clicks by mode and outcome.",
}, []string{"mode", "outcome"})

type Click struct {
	DealID       value.DealID
	AffiliateURL string
	Clicks       int64
	// Pending is set when the increment was queued and not applied yet.
	Pending bool
}

type ClickService struct {
	repo    DealRepository
	catalog Catalog
	queue   ClickQueue
	mode    ClickMode
}

func NewClickService(repo DealRepository, catalog Catalog) *ClickService {
	return &ClickService{
		repo:    repo,
		catalog: catalog,
		mode:    ClickModeSync,
	}
}

// WithQueue switches the service to ClickModeAsync.
func (s *ClickService) WithQueue(queue ClickQueue) *ClickService {
	s.queue = queue
	s.mode = ClickModeAsync

	return s
}

func (s *ClickService) Mode() ClickMode {
	return s.mode
}

// Click records a visitor's intent to follow the affiliate link of a deal.
// No deduplication takes place: every call counts.
func (s *ClickService) Click(ctx context.Context, id value.DealID) (Click, error) {
	if s.mode == ClickModeAsync {
		return s.clickAsync(ctx, id)
	}

	d, err := s.repo.IncrementClicks(ctx, id)
	if err != nil {
		clicksTotal.WithLabelValues(string(ClickModeSync), "failed").Inc()

		return Click{}, clickFailed(mapNotFound(fmt.Errorf("dealRepo.IncrementClicks: %w", err), id))
	}

	clicksTotal.WithLabelValues(string(ClickModeSync), "recorded").Inc()
	s.catalog.SetClicks(id, d.Clicks)

	return Click{
		DealID:       id,
		AffiliateURL: d.AffiliateURL,
		Clicks:       d.Clicks,
	}, nil
}

func (s *ClickService) clickAsync(ctx context.Context, id value.DealID) (Click, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Click{}, clickFailed(mapNotFound(fmt.Errorf("dealRepo.GetByID: %w", err), id))
	}

	if err = s.queue.EnqueueClick(ctx, id); err != nil {
		clicksTotal.WithLabelValues(string(ClickModeAsync), "dropped").Inc()
		logger(ctx).Error("click not queued", logx.Error(err), slog.String(logx.FieldDealID, id.String()))

		return Click{DealID: id, AffiliateURL: d.AffiliateURL, Clicks: d.Clicks}, nil
	}

	clicksTotal.WithLabelValues(string(ClickModeAsync), "queued").Inc()
	s.catalog.BumpClicks(id, 1)

	return Click{
		DealID:       id,
		AffiliateURL: d.AffiliateURL,
		Clicks:       d.Clicks + 1,
		Pending:      true,
	}, nil
}

// RecordClick applies a queued click. Errors are returned to the queue so
// the job is retried.
func (s *ClickService) RecordClick(ctx context.Context, id value.DealID) error {
	d, err := s.repo.IncrementClicks(ctx, id)
	if err != nil {
		return mapNotFound(fmt.Errorf("dealRepo.IncrementClicks: %w", err), id)
	}

	clicksTotal.WithLabelValues(string(ClickModeAsync), "recorded").Inc()
	s.catalog.SetClicks(id, d.Clicks)

	return nil
}

// clickFailed gives backend failures the message shown instead of the
// redirect. Not-found errors keep their own description.
func clickFailed(err error) error {
	if failure.IsNotFoundError(err) {
		return err
	}

	return domain.WithMessage(err, msgClickFailed)
}
