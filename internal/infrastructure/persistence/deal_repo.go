package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/errcodes"
)

const dealColumns = `id, title, image_url, original_price, discounted_price, affiliate_url,
	category, is_trending, clicks, created_at, updated_at`

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// List returns every deal, newest first.
func (r *DealRepository) List(ctx context.Context) ([]entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at DESC, id`

	var rows []dealSchema
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	deals := make([]entity.Deal, 0, len(rows))
	for _, row := range rows {
		deals = append(deals, row.toDomain())
	}

	return deals, nil
}

func (r *DealRepository) GetByID(ctx context.Context, id value.DealID) (entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var row dealSchema
	if err := r.db.GetContext(ctx, &row, query, uuid.UUID(id)); err != nil {
		return entity.Deal{}, dealError(err, "failed to get deal")
	}

	return row.toDomain(), nil
}

func (r *DealRepository) Create(ctx context.Context, deal entity.Deal) (entity.Deal, error) {
	var created entity.Deal

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO deals (title, image_url, original_price, discounted_price, affiliate_url, category, is_trending)
			VALUES (:title, :image_url, :original_price, :discounted_price, :affiliate_url, :category, :is_trending)
			RETURNING ` + dealColumns

		row, err := namedGet(ctx, tx, query, fromDeal(deal))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert deal")
		}

		created = row.toDomain()

		return nil
	})

	return created, err
}

// Update replaces every editable field. Clicks and created_at are untouched.
func (r *DealRepository) Update(ctx context.Context, deal entity.Deal) (entity.Deal, error) {
	var updated entity.Deal

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE deals
			SET title = :title,
			    image_url = :image_url,
			    original_price = :original_price,
			    discounted_price = :discounted_price,
			    affiliate_url = :affiliate_url,
			    category = :category,
			    is_trending = :is_trending,
			    updated_at = now()
			WHERE id = :id
			RETURNING ` + dealColumns

		row, err := namedGet(ctx, tx, query, fromDeal(deal))
		if err != nil {
			return dealError(err, "failed to update deal")
		}

		updated = row.toDomain()

		return nil
	})

	return updated, err
}

func (r *DealRepository) Delete(ctx context.Context, id value.DealID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete deal")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return nil
}

// IncrementClicks bumps the counter in a single statement so concurrent
// clicks are never lost.
func (r *DealRepository) IncrementClicks(ctx context.Context, id value.DealID) (entity.Deal, error) {
	query := `UPDATE deals SET clicks = clicks + 1 WHERE id = $1 RETURNING ` + dealColumns

	var row dealSchema
	if err := r.db.GetContext(ctx, &row, query, uuid.UUID(id)); err != nil {
		return entity.Deal{}, dealError(err, "failed to increment clicks")
	}

	return row.toDomain(), nil
}

func (r *DealRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

func namedGet(ctx context.Context, tx *sqlx.Tx, query string, arg dealSchema) (dealSchema, error) {
	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return dealSchema{}, err
	}
	defer stmt.Close()

	var row dealSchema
	if err = stmt.GetContext(ctx, &row, arg); err != nil {
		return dealSchema{}, err
	}

	return row, nil
}

func dealError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return domain.WrapError(err, errcodes.InternalServerError, message)
}
