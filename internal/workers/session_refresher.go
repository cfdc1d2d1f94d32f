package workers

import (
	"context"
	"time"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"

	"go.uber.org/zap"
)

// SessionSource is what the refresher drives: anything that can
// re-resolve the current session.
type SessionSource interface {
	Refresh(ctx context.Context) *session.Session
}

// SessionRefresher re-resolves the session on a fixed interval and
// whenever the UI regains focus. It is the polling fallback behind the
// session service's subscription callbacks; both the ticker and the
// focus listener die with ctx so nothing leaks on teardown.
type SessionRefresher struct {
	Session  SessionSource
	Interval time.Duration
	Focus    <-chan struct{}
	Logger   *zap.Logger
}

func NewSessionRefresher(session SessionSource, interval time.Duration, focus <-chan struct{}, logger *zap.Logger) *SessionRefresher {
	return &SessionRefresher{
		Session:  session,
		Interval: interval,
		Focus:    focus,
		Logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (w *SessionRefresher) Run(ctx context.Context) {
	w.Logger.Info("session refresher started", zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("session refresher stopped")
			return
		case <-ticker.C:
			w.Session.Refresh(ctx)
		case _, ok := <-w.Focus:
			if !ok {
				w.Logger.Info("session refresher stopped: focus channel closed")
				return
			}
			w.Session.Refresh(ctx)
		}
	}
}
