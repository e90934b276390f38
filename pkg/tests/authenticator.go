package tests

import (
	"context"
	"net/http"
	"sync"

	"stealdeals/pkg/httpx"
	"stealdeals/pkg/rest"
)

// SignInAuthenticator obtains a bearer token through the sign-in endpoint
// and is meant to be plugged into httpx.AuthBearerRoundTripper.
type SignInAuthenticator struct {
	baseURL  string
	email    string
	password string

	mu    sync.Mutex
	token string
}

func NewSignInAuthenticator(baseURL, email, password string) *SignInAuthenticator {
	return &SignInAuthenticator{
		baseURL:  baseURL,
		email:    email,
		password: password,
	}
}

func (a *SignInAuthenticator) Authenticate(ctx context.Context) error {
	var session rest.Session

	_, err := NewAPIClient(a.baseURL, nil).Post(
		ctx,
		"/v1/auth/sign-in",
		http.Header{},
		rest.SignInRequest{Email: a.email, Password: a.password},
		&session,
		nil,
	)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.token = session.AccessToken
	a.mu.Unlock()

	return nil
}

func (a *SignInAuthenticator) BearerToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.token
}

// NewAdminClient returns an API client whose requests carry the admin's
// bearer token, signing in lazily.
func NewAdminClient(baseURL, email, password string) APIClient {
	return NewAPIClient(baseURL, &http.Client{
		Transport: httpx.NewAuthBearerRoundTripper(
			httpx.NewLoggingRoundTripper(http.DefaultTransport),
			NewSignInAuthenticator(baseURL, email, password),
		),
	})
}
