package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"

	"go.uber.org/zap"
)

// authResponse is the session payload returned by the sign-up and
// token endpoints.
type authResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *session.User `json:"user"`
}

// AuthGateway implements the auth port over the service's REST surface
// and keeps the resulting tokens on the shared Client.
type AuthGateway struct {
	client *Client
	logger *zap.Logger
}

func NewAuthGateway(client *Client, logger *zap.Logger) *AuthGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthGateway{client: client, logger: logger}
}

func (g *AuthGateway) SignUp(ctx context.Context, email, password string) (*session.User, error) {
	var out authResponse
	err := g.client.do(ctx, http.MethodPost, "/auth/v1/signup", nil,
		map[string]string{"email": email, "password": password}, &out, nil)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User == nil {
		return nil, fmt.Errorf("backend: sign-up returned no session")
	}
	g.client.adoptSession(out.AccessToken, out.RefreshToken)
	return out.User, nil
}

func (g *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*session.User, error) {
	return g.tokenGrant(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// AuthorizationURL builds the provider redirect target. The redirect is
// suppressed service-side: the caller performs the navigation itself.
func (g *AuthGateway) AuthorizationURL(req authPort.OAuthRequest) (string, error) {
	switch req.Provider {
	case authPort.ProviderGoogle, authPort.ProviderGitHub:
	default:
		return "", fmt.Errorf("backend: unsupported oauth provider %q", req.Provider)
	}
	q := url.Values{}
	q.Set("provider", string(req.Provider))
	if req.RedirectTo != "" {
		q.Set("redirect_to", req.RedirectTo)
	}
	if req.State != "" {
		q.Set("state", req.State)
	}
	if req.CodeChallenge != "" {
		q.Set("code_challenge", req.CodeChallenge)
		q.Set("code_challenge_method", "s256")
	}
	return g.client.BaseURL() + "/auth/v1/authorize?" + q.Encode(), nil
}

func (g *AuthGateway) ExchangeCode(ctx context.Context, code, verifier string) (*session.User, error) {
	return g.tokenGrant(ctx, "pkce", map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	})
}

func (g *AuthGateway) tokenGrant(ctx context.Context, grant string, body map[string]string) (*session.User, error) {
	var out authResponse
	err := g.client.do(ctx, http.MethodPost, "/auth/v1/token",
		url.Values{"grant_type": []string{grant}}, body, &out, nil)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User == nil {
		return nil, fmt.Errorf("backend: %s grant returned no session", grant)
	}
	g.client.adoptSession(out.AccessToken, out.RefreshToken)
	return out.User, nil
}

// CurrentUser resolves {user, profile}. No stored tokens means signed
// out, not an error; an expired or revoked session clears the tokens
// and reports signed out the same way.
func (g *AuthGateway) CurrentUser(ctx context.Context) (*session.Session, error) {
	if !g.client.HasSession() {
		return nil, nil
	}

	var user session.User
	err := g.client.authed(ctx, http.MethodGet, "/auth/v1/user", nil, nil, &user, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			g.client.setTokens(nil)
			return nil, nil
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}

	sess := &session.Session{User: &user}

	var profile session.Profile
	err = g.client.From("users").
		Select("id, nickname, avatar_url, bio").
		Eq("id", user.ID).
		Single().
		Get(ctx, &profile)
	switch {
	case err == nil:
		sess.Profile = &profile
	case errors.Is(err, ErrNoRows):
		// Identity without a profile row is still signed in.
	default:
		g.logger.Warn("could not load profile", zap.String("user_id", user.ID), zap.Error(err))
	}
	return sess, nil
}

// SignOut revokes the session server-side, then clears local tokens
// regardless of the outcome.
func (g *AuthGateway) SignOut(ctx context.Context) error {
	var revokeErr error
	if g.client.HasSession() {
		revokeErr = g.client.authed(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil, nil)
	}
	g.client.setTokens(nil)
	return revokeErr
}

var _ authPort.Gateway = (*AuthGateway)(nil)
