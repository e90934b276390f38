package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/errcodes"
)

const keyPrefix = "session:"

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type record struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store keeps sessions in redis under "session:<token>" with the session TTL.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) Save(ctx context.Context, session entity.Session, ttl time.Duration) error {
	payload, err := json.Marshal(record{
		UserID:    uuid.UUID(session.UserID),
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode session")
	}

	if err = s.client.Set(ctx, keyPrefix+session.Token, payload, ttl).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save session")
	}

	return nil
}

func (s *Store) Get(ctx context.Context, token string) (entity.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Session{}, domain.NewError(errcodes.SessionInvalid, "session not found")
		}

		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to load session")
	}

	var r record
	if err = json.Unmarshal(payload, &r); err != nil {
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode session")
	}

	return entity.Session{
		Token:     token,
		UserID:    value.UserID(r.UserID),
		Email:     r.Email,
		ExpiresAt: r.ExpiresAt,
	}, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete session")
	}

	return nil
}
