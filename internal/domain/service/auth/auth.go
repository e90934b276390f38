package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/logx"
)

const (
	defaultSessionTTL   = 24 * time.Hour
	defaultRoleCacheTTL = 30 * time.Second
	tokenBytes          = 32
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	HasRole(ctx context.Context, userID value.UserID, role value.Role) (bool, error)
}

type SessionStore interface {
	Save(ctx context.Context, session entity.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (entity.Session, error)
	Delete(ctx context.Context, token string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AuthEvent) error
}

// Service owns sessions and the admin gate. Every privileged request goes
// through RequireAdmin; role lookups are cached for a short TTL and dropped
// as soon as an auth event for the user arrives.
type Service struct {
	users      UserRepository
	sessions   SessionStore
	events     EventPublisher
	roles      *cache.Cache
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(users UserRepository, sessions SessionStore, events EventPublisher) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		events:     events,
		roles:      cache.New(defaultRoleCacheTTL, 2*defaultRoleCacheTTL),
		sessionTTL: defaultSessionTTL,
		now:        time.Now,
	}
}

func (s *Service) WithSessionTTL(ttl time.Duration) *Service {
	s.sessionTTL = ttl
	return s
}

func (s *Service) WithRoleCacheTTL(ttl time.Duration) *Service {
	s.roles = cache.New(ttl, 2*ttl)
	return s
}

func (s *Service) SignIn(ctx context.Context, email, password string) (entity.Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if domain.HasCode(err, errcodes.UserNotFound) {
			return entity.Session{}, errCredentialsMismatch()
		}

		return entity.Session{}, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return entity.Session{}, errCredentialsMismatch()
	}

	token, err := newToken()
	if err != nil {
		return entity.Session{}, fmt.Errorf("newToken: %w", err)
	}

	isAdmin, err := s.isAdmin(ctx, user.ID)
	if err != nil {
		return entity.Session{}, err
	}

	session := entity.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		IsAdmin:   isAdmin,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}

	if err = s.sessions.Save(ctx, session, s.sessionTTL); err != nil {
		return entity.Session{}, fmt.Errorf("sessionStore.Save: %w", err)
	}

	s.publish(ctx, entity.AuthEventSignedIn, user.ID)

	return session, nil
}

// Session resolves a bearer token. The admin flag is looked up again rather
// than trusted from sign-in time.
func (s *Service) Session(ctx context.Context, token string) (entity.Session, error) {
	if token == "" {
		return entity.Session{}, failure.NewUnauthorizedError(
			"missing bearer token",
			failure.WithCode(errcodes.SessionRequired),
			failure.WithDescription("Please sign in"),
		)
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if domain.HasCode(err, errcodes.SessionInvalid) {
			return entity.Session{}, failure.NewUnauthorizedError(
				err.Error(),
				failure.WithCode(errcodes.SessionInvalid),
				failure.WithDescription("Your session has expired, please sign in again"),
			)
		}

		return entity.Session{}, fmt.Errorf("sessionStore.Get: %w", err)
	}

	session.IsAdmin, err = s.isAdmin(ctx, session.UserID)
	if err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

func (s *Service) RequireAdmin(ctx context.Context, token string) (entity.Session, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return entity.Session{}, err
	}

	if !session.IsAdmin {
		return entity.Session{}, failure.NewForbiddenError(
			"admin role required",
			failure.WithCode(errcodes.AdminRoleRequired),
			failure.WithDescription("You don't have admin privileges"),
		)
	}

	return session, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	session, err := s.Session(ctx, token)
	if err != nil {
		return err
	}

	if err = s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("sessionStore.Delete: %w", err)
	}

	s.publish(ctx, entity.AuthEventSignedOut, session.UserID)

	return nil
}

// HandleEvent reacts to auth events from any replica.
func (s *Service) HandleEvent(ctx context.Context, event entity.AuthEvent) {
	s.roles.Delete(event.UserID)

	logger(ctx).Debug(
		"auth event",
		slog.String(logx.FieldEvent, string(event.Type)),
		slog.String(logx.FieldUserID, event.UserID),
	)
}

func (s *Service) isAdmin(ctx context.Context, userID value.UserID) (bool, error) {
	key := userID.String()

	if cached, ok := s.roles.Get(key); ok {
		isAdmin, _ := cached.(bool)
		return isAdmin, nil
	}

	isAdmin, err := s.users.HasRole(ctx, userID, value.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("userRepo.HasRole: %w", err)
	}

	s.roles.Set(key, isAdmin, cache.DefaultExpiration)

	return isAdmin, nil
}

func (s *Service) publish(ctx context.Context, eventType entity.AuthEventType, userID value.UserID) {
	err := s.events.Publish(ctx, entity.AuthEvent{
		Type:       eventType,
		UserID:     userID.String(),
		OccurredAt: s.now(),
	})
	if err != nil {
		logger(ctx).Warn("auth event not published", logx.Error(err), slog.String(logx.FieldEvent, string(eventType)))
	}
}

func errCredentialsMismatch() error {
	return failure.NewUnauthorizedError(
		"credentials mismatch",
		failure.WithCode(errcodes.CredentialsMismatch),
		failure.WithDescription("Invalid email or password"),
	)
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(errors.New("crypto/rand"), err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
