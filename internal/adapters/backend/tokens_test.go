package backend

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiryReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got := tokenExpiry(signedToken(t, exp))
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)
}

func TestTokenExpiryUnparseableTokenIsZero(t *testing.T) {
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
}

func TestExpiringSoon(t *testing.T) {
	tests := []struct {
		name   string
		tokens *Tokens
		want   bool
	}{
		{name: "nil tokens", tokens: nil, want: true},
		{name: "no access token", tokens: &Tokens{}, want: true},
		{
			name:   "unknown expiry never refreshes",
			tokens: &Tokens{AccessToken: "at"},
			want:   false,
		},
		{
			name:   "far from expiry",
			tokens: &Tokens{AccessToken: "at", ExpiresAt: time.Now().Add(time.Hour)},
			want:   false,
		},
		{
			name:   "inside the leeway window",
			tokens: &Tokens{AccessToken: "at", ExpiresAt: time.Now().Add(10 * time.Second)},
			want:   true,
		},
		{
			name:   "already expired",
			tokens: &Tokens{AccessToken: "at", ExpiresAt: time.Now().Add(-time.Minute)},
			want:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tokens.expiringSoon(30*time.Second))
		})
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "session.json")
	store := newTokenStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing file means signed out")

	want := &Tokens{AccessToken: "at", RefreshToken: "rt", ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	require.NoError(t, store.Save(want))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, want.AccessToken, loaded.AccessToken)
	assert.Equal(t, want.RefreshToken, loaded.RefreshToken)
	assert.True(t, loaded.ExpiresAt.Equal(want.ExpiresAt))

	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestTokenStoreDisabledPath(t *testing.T) {
	store := newTokenStore("")

	require.NoError(t, store.Save(&Tokens{AccessToken: "at"}))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	require.NoError(t, store.Clear())
}
