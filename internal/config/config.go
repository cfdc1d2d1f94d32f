package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultSessionRefresh = 5 * time.Second
	DefaultFeedLimit      = 50
)

// Init loads .env (if present) and validates required settings.
func Init() {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	if os.Getenv("VIBE_BASE_URL") == "" {
		Logger.Fatal("VIBE_BASE_URL is not set")
	}
}

// BaseURL is the endpoint of the hosted backend service.
func BaseURL() string {
	return os.Getenv("VIBE_BASE_URL")
}

// APIKey is the public (anon) key sent with every request. May be empty
// when the deployment does not require one.
func APIKey() string {
	return os.Getenv("VIBE_API_KEY")
}

// SessionRefresh is how often the session refresher re-resolves the
// current user. Falls back to DefaultSessionRefresh on absent or
// unparseable values.
func SessionRefresh() time.Duration {
	raw := os.Getenv("VIBE_SESSION_REFRESH")
	if raw == "" {
		return DefaultSessionRefresh
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultSessionRefresh
	}
	return d
}

// SessionFile is where the backend client persists its tokens between
// runs. Defaults to vibe/session.json under the user config directory.
func SessionFile() string {
	if p := os.Getenv("VIBE_SESSION_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".vibe-session.json")
	}
	return filepath.Join(dir, "vibe", "session.json")
}
