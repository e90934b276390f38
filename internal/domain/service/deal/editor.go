package deal

import (
	"context"
	"fmt"
	"log/slog"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/service/catalog"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/logx"
)

//nolint:gochecknoglobals
var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stealdeals",
	Subsystem: "admin",
	Name:      "deal_mutations_total",
	Help:      "Committed admin writes by operation.",
}, []string{"operation"})

// MutationResult is what the console shows after a write: the affected deal
// and the freshly re-read collection. Deal is nil after a delete. When the
// re-read fails the previous collection is returned together with a notice.
type MutationResult struct {
	Deal   *entity.Deal
	Deals  []entity.Deal
	Notice string
}

type EditorService struct {
	repo      DealRepository
	catalog   Catalog
	announcer Announcer
	validate  *validator.Validate
}

func NewEditorService(repo DealRepository, catalog Catalog) *EditorService {
	return &EditorService{
		repo:      repo,
		catalog:   catalog,
		announcer: nopAnnouncer{},
		validate:  newValidator(),
	}
}

func (s *EditorService) WithAnnouncer(announcer Announcer) *EditorService {
	s.announcer = announcer
	return s
}

// List re-reads the full collection for the console.
func (s *EditorService) List(ctx context.Context) ([]entity.Deal, error) {
	deals, err := s.catalog.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.Refresh: %w", err)
	}

	return deals, nil
}

func (s *EditorService) Get(ctx context.Context, id value.DealID) (entity.Deal, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entity.Deal{}, mapNotFound(fmt.Errorf("dealRepo.GetByID: %w", err), id)
	}

	return d, nil
}

func (s *EditorService) Create(ctx context.Context, draft entity.DealDraft) (MutationResult, error) {
	draft, err := validateDraft(s.validate, draft)
	if err != nil {
		return MutationResult{}, err
	}

	created, err := s.repo.Create(ctx, applyDraft(entity.Deal{}, draft))
	if err != nil {
		return MutationResult{}, fmt.Errorf("dealRepo.Create: %w", err)
	}

	mutationsTotal.WithLabelValues("create").Inc()
	logger(ctx).Info("deal created", logx.Stringer(logx.FieldDealID, created.ID))

	if created.IsTrending {
		s.announcer.Announce(ctx, created)
	}

	return s.reload(ctx, created.ID, &created), nil
}

// Update replaces every editable field of the deal.
func (s *EditorService) Update(ctx context.Context, id value.DealID, draft entity.DealDraft) (MutationResult, error) {
	draft, err := validateDraft(s.validate, draft)
	if err != nil {
		return MutationResult{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return MutationResult{}, mapNotFound(fmt.Errorf("dealRepo.GetByID: %w", err), id)
	}

	updated, err := s.repo.Update(ctx, applyDraft(current, draft))
	if err != nil {
		return MutationResult{}, mapNotFound(fmt.Errorf("dealRepo.Update: %w", err), id)
	}

	mutationsTotal.WithLabelValues("update").Inc()
	logger(ctx).Info("deal updated", logx.Stringer(logx.FieldDealID, id))

	if updated.IsTrending && !current.IsTrending {
		s.announcer.Announce(ctx, updated)
	}

	return s.reload(ctx, updated.ID, &updated), nil
}

// Delete removes the deal for good. confirmed must reflect an explicit
// confirmation by the administrator; nothing is written without it.
func (s *EditorService) Delete(ctx context.Context, id value.DealID, confirmed bool) (MutationResult, error) {
	if !confirmed {
		return MutationResult{}, failure.NewInvalidArgumentError(
			"delete not confirmed",
			failure.WithCode(errcodes.DeleteNotConfirmed),
			failure.WithDescription("Are you sure you want to delete this deal? Repeat the request with confirm=true"),
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return MutationResult{}, mapNotFound(fmt.Errorf("dealRepo.Delete: %w", err), id)
	}

	mutationsTotal.WithLabelValues("delete").Inc()
	logger(ctx).Info("deal deleted", logx.Stringer(logx.FieldDealID, id))

	return s.reload(ctx, id, nil), nil
}

func (s *EditorService) reload(ctx context.Context, id value.DealID, affected *entity.Deal) MutationResult {
	deals, err := s.catalog.Refresh(ctx)
	if err != nil {
		logger(ctx).Warn("reload after write failed", logx.Error(err), slog.String(logx.FieldDealID, id.String()))

		deals, _ = s.catalog.Snapshot()

		return MutationResult{Deal: affected, Deals: deals, Notice: catalog.NoticeFetchFailed}
	}

	return MutationResult{Deal: affected, Deals: deals}
}

func applyDraft(d entity.Deal, draft entity.DealDraft) entity.Deal {
	d.Title = draft.Title
	d.ImageURL = draft.ImageURL
	d.OriginalPrice = draft.OriginalPrice
	d.DiscountedPrice = draft.DiscountedPrice
	d.AffiliateURL = draft.AffiliateURL
	d.Category = value.Category(draft.Category)
	d.IsTrending = draft.IsTrending

	return d
}
