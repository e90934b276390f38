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

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	var row userSchema
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, domain.NewError(errcodes.UserNotFound, "user not found")
		}

		return entity.User{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get user")
	}

	return row.toDomain(), nil
}

// Upsert creates the user or replaces the password of an existing one.
func (r *UserRepository) Upsert(ctx context.Context, email, passwordHash string) (entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, email, password_hash, created_at`

	var row userSchema
	if err := r.db.GetContext(ctx, &row, query, email, passwordHash); err != nil {
		return entity.User{}, domain.WrapError(err, errcodes.InternalServerError, "failed to upsert user")
	}

	return row.toDomain(), nil
}

func (r *UserRepository) GrantRole(ctx context.Context, userID value.UserID, role value.Role) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, uuid.UUID(userID), role.String()); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to grant role")
	}

	return nil
}

func (r *UserRepository) HasRole(ctx context.Context, userID value.UserID, role value.Role) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, uuid.UUID(userID), role.String()); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check role")
	}

	return exists, nil
}
