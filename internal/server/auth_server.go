package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"stealdeals/internal/domain/entity"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/httpx/reply"
	"stealdeals/pkg/httpx/req"
	"stealdeals/pkg/logx"
	"stealdeals/pkg/rest"
)

type authService interface {
	SignIn(ctx context.Context, email, password string) (entity.Session, error)
	Session(ctx context.Context, token string) (entity.Session, error)
	SignOut(ctx context.Context, token string) error
	RequireAdmin(ctx context.Context, token string) (entity.Session, error)
}

type AuthServer struct {
	auth authService
}

func NewAuthServer(auth authService) AuthServer {
	return AuthServer{auth: auth}
}

func (s AuthServer) postV1SignIn(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SignInRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	session, err := s.auth.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.SignIn: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(session, true))

	return nil
}

func (s AuthServer) postV1SignOut(w http.ResponseWriter, r *http.Request) error {
	token, err := bearerToken(r)
	if err != nil {
		return err
	}

	if err = s.auth.SignOut(r.Context(), token); err != nil {
		return fmt.Errorf("authService.SignOut: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s AuthServer) getV1Session(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	token, err := bearerToken(r)
	if err != nil {
		return err
	}

	session, err := s.auth.Session(ctx, token)
	if err != nil {
		return fmt.Errorf("authService.Session: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(session, false))

	return nil
}

// requireAdmin re-checks the session and the admin role on every request.
func (s AuthServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := bearerToken(r)
		if err != nil {
			reply.Error(ctx, w, err)
			return
		}

		session, err := s.auth.RequireAdmin(ctx, token)
		if err != nil {
			reply.Error(ctx, w, fmt.Errorf("authService.RequireAdmin: %w", err))
			return
		}

		ctx = contextx.WithSessionToken(ctx, contextx.SessionToken(token))
		ctx = contextx.WithUserID(ctx, contextx.UserID(session.UserID.String()))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldUserID, session.UserID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, error) {
	token, ok := req.BearerToken(r)
	if !ok {
		return "", failure.NewUnauthorizedError(
			"missing bearer token",
			failure.WithCode(errcodes.SessionRequired),
			failure.WithDescription("Please sign in"),
		)
	}

	return token, nil
}
