package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*AuthGateway, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Logger: zap.NewNop()})
	require.NoError(t, err)
	return NewAuthGateway(c, zap.NewNop()), c
}

func TestSignInWithPasswordStoresTokens(t *testing.T) {
	var grant string
	var body map[string]string
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		grant = r.URL.Query().Get("grant_type")
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"user":          map[string]string{"id": "u1", "email": "u1@example.com"},
		})
	})

	require.False(t, c.HasSession())
	user, err := gw.SignInWithPassword(context.Background(), "u1@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "password", grant)
	assert.Equal(t, "u1@example.com", body["email"])
	assert.True(t, c.HasSession())
}

func TestSignInFailureLeavesSignedOut(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})

	_, err := gw.SignInWithPassword(context.Background(), "u1@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
	assert.False(t, c.HasSession())
}

func TestSignUpAdoptsReturnedSession(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"user":          map[string]string{"id": "u9", "email": "new@example.com"},
		})
	})

	user, err := gw.SignUp(context.Background(), "new@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.True(t, c.HasSession())
}

func TestAuthorizationURL(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	got, err := gw.AuthorizationURL(authPort.OAuthRequest{
		Provider:      authPort.ProviderGoogle,
		RedirectTo:    "http://127.0.0.1:4567/callback",
		State:         "nonce",
		CodeChallenge: "challenge",
	})
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, c.BaseURL()+"/auth/v1/authorize", u.Scheme+"://"+u.Host+u.Path)
	q := u.Query()
	assert.Equal(t, "google", q.Get("provider"))
	assert.Equal(t, "http://127.0.0.1:4567/callback", q.Get("redirect_to"))
	assert.Equal(t, "nonce", q.Get("state"))
	assert.Equal(t, "challenge", q.Get("code_challenge"))
	assert.Equal(t, "s256", q.Get("code_challenge_method"))

	_, err = gw.AuthorizationURL(authPort.OAuthRequest{Provider: "facebook"})
	assert.Error(t, err)
}

func TestExchangeCodeUsesPKCEGrant(t *testing.T) {
	var grant string
	var body map[string]string
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		grant = r.URL.Query().Get("grant_type")
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at",
			"user":         map[string]string{"id": "u1"},
		})
	})

	_, err := gw.ExchangeCode(context.Background(), "the-code", "the-verifier")
	require.NoError(t, err)
	assert.Equal(t, "pkce", grant)
	assert.Equal(t, "the-code", body["auth_code"])
	assert.Equal(t, "the-verifier", body["code_verifier"])
}

func TestCurrentUserWithoutTokensIsSignedOut(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without stored tokens")
	})

	sess, err := gw.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCurrentUserAssemblesProfile(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "u1@example.com"})
		case "/database/v1/users":
			assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
			assert.Equal(t, singleAccept, r.Header.Get("Accept"))
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "nickname": "sam"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	c.adoptSession("at", "rt")

	sess, err := gw.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID())
	require.NotNil(t, sess.Profile)
	require.NotNil(t, sess.Profile.Nickname)
	assert.Equal(t, "sam", *sess.Profile.Nickname)
	assert.Equal(t, "sam", sess.DisplayName())
}

func TestCurrentUserWithoutProfileRow(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "u1@example.com"})
		case "/database/v1/users":
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"message":"no rows"}`))
		}
	})
	c.adoptSession("at", "rt")

	sess, err := gw.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Nil(t, sess.Profile)
	assert.Equal(t, "u1@example.com", sess.DisplayName())
}

func TestCurrentUserRevokedSessionClearsTokens(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"invalid JWT"}`))
	})
	c.adoptSession("stale", "rt")

	sess, err := gw.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.False(t, c.HasSession(), "revoked tokens must not linger")
}

func TestSignOutClearsTokensEvenWhenRevokeFails(t *testing.T) {
	gw, c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"oops"}`))
	})
	c.adoptSession("at", "rt")

	err := gw.SignOut(context.Background())
	assert.Error(t, err)
	assert.False(t, c.HasSession())
}
