package auth

import (
	"context"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
)

// Provider is an OAuth identity provider supported by the auth service.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// OAuthRequest asks the service for an authorization URL without
// performing the redirect; the caller navigates to it itself.
type OAuthRequest struct {
	Provider      Provider
	RedirectTo    string
	State         string
	CodeChallenge string
}

// Gateway is the outbound port to the auth side of the backend service.
// Every call is a network round trip; errors carry the service's own
// message where one exists.
type Gateway interface {
	// SignUp registers an email/password identity and signs it in.
	SignUp(ctx context.Context, email, password string) (*session.User, error)

	// SignInWithPassword authenticates an existing identity.
	SignInWithPassword(ctx context.Context, email, password string) (*session.User, error)

	// AuthorizationURL builds the provider redirect target for a manual
	// OAuth flow. No network call is made.
	AuthorizationURL(req OAuthRequest) (string, error)

	// ExchangeCode trades the callback authorization code for a session.
	ExchangeCode(ctx context.Context, code, verifier string) (*session.User, error)

	// CurrentUser resolves {user, profile} for the stored session, or
	// (nil, nil) when no session exists.
	CurrentUser(ctx context.Context) (*session.Session, error)

	// SignOut revokes the session and clears stored tokens.
	SignOut(ctx context.Context) error
}
