package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stealdeals/pkg/contextx"
)

func TestSessionToken(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	token, err := contextx.SessionTokenFromContext(ctx)
	rq.Empty(token)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "session token: no value in context")

	ctx = contextx.WithSessionToken(ctx, contextx.SessionToken("tkn"))

	token, err = contextx.SessionTokenFromContext(ctx)
	rq.NoError(err)
	rq.Equal("tkn", token.String())
}
