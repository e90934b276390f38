package deal

import (
	"context"

	"git.appkode.ru/pub/go/failure"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type DealRepository interface {
	GetByID(ctx context.Context, id value.DealID) (entity.Deal, error)
	Create(ctx context.Context, deal entity.Deal) (entity.Deal, error)
	Update(ctx context.Context, deal entity.Deal) (entity.Deal, error)
	Delete(ctx context.Context, id value.DealID) error
	IncrementClicks(ctx context.Context, id value.DealID) (entity.Deal, error)
}

// Catalog is the in-memory deal store shared with the storefront.
type Catalog interface {
	Refresh(ctx context.Context) ([]entity.Deal, error)
	Snapshot() ([]entity.Deal, bool)
	BumpClicks(id value.DealID, delta int64)
	SetClicks(id value.DealID, clicks int64)
}

// Announcer publishes deals that just became trending. Announce must not
// block the caller.
type Announcer interface {
	Announce(ctx context.Context, deal entity.Deal)
}

type ClickQueue interface {
	EnqueueClick(ctx context.Context, id value.DealID) error
}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(context.Context, entity.Deal) {}

func mapNotFound(err error, id value.DealID) error {
	if domain.HasCode(err, errcodes.DealNotFound) {
		return failure.NewNotFoundError(
			err.Error(),
			failure.WithCode(errcodes.DealNotFound),
			failure.WithDescription("Deal "+id.String()+" not found"),
		)
	}

	return err
}
