package contextx

import (
	"context"
	"fmt"
)

// SessionToken is the bearer token the request was authenticated with.
type SessionToken string

type contextKeySessionToken struct{}

func (s SessionToken) String() string {
	return string(s)
}

func WithSessionToken(ctx context.Context, token SessionToken) context.Context {
	return context.WithValue(ctx, contextKeySessionToken{}, token)
}

func SessionTokenFromContext(ctx context.Context) (SessionToken, error) {
	token, ok := ctx.Value(contextKeySessionToken{}).(SessionToken)
	if !ok {
		return "", fmt.Errorf("session token: %w", ErrNoValue)
	}

	return token, nil
}
