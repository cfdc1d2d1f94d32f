// Package oauthcb completes the manual OAuth redirect: the authorize
// URL is opened in a browser while a short-lived localhost listener
// waits for the provider to redirect back with the authorization code.
package oauthcb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Result is what the provider redirect carried back.
type Result struct {
	Code  string
	State string
}

var (
	ErrStateMismatch = errors.New("oauth callback state did not match")
	ErrNoCode        = errors.New("oauth callback carried no authorization code")
)

// Listener serves exactly one OAuth callback on a loopback port.
type Listener struct {
	mu      sync.Mutex
	state   string
	logger  *zap.Logger
	ln      net.Listener
	srv     *http.Server
	results chan result
}

type result struct {
	res Result
	err error
}

// New prepares a listener bound to an ephemeral loopback port. state is
// the nonce the redirect must echo back; it may be set later with
// SetState when the authorize request is built after binding.
func New(state string, logger *zap.Logger) (*Listener, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("oauthcb: listen: %w", err)
	}

	l := &Listener{
		state:   state,
		logger:  logger,
		ln:      ln,
		results: make(chan result, 1),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/callback", l.handleCallback)

	l.srv = &http.Server{Handler: engine}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Warn("oauth callback server stopped", zap.Error(err))
		}
	}()
	return l, nil
}

// RedirectURL is the redirect target to hand to the authorize request.
func (l *Listener) RedirectURL() string {
	return fmt.Sprintf("http://%s/callback", l.ln.Addr().String())
}

// SetState installs the nonce the redirect must echo back.
func (l *Listener) SetState(state string) {
	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
}

func (l *Listener) handleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	l.mu.Lock()
	want := l.state
	l.mu.Unlock()

	switch {
	case state != want:
		c.String(http.StatusBadRequest, "sign-in rejected: state mismatch. you can close this tab.")
		l.deliver(result{err: ErrStateMismatch})
	case code == "":
		c.String(http.StatusBadRequest, "sign-in failed: no authorization code. you can close this tab.")
		l.deliver(result{err: ErrNoCode})
	default:
		c.String(http.StatusOK, "signed in. you can close this tab and return to the terminal.")
		l.deliver(result{res: Result{Code: code, State: state}})
	}
}

func (l *Listener) deliver(r result) {
	select {
	case l.results <- r:
	default:
		// A second hit on the callback is ignored; only the first counts.
	}
}

// Wait blocks until the callback arrives or ctx expires.
func (l *Listener) Wait(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-l.results:
		return r.res, r.err
	}
}

// Close shuts the server down. Safe to call after Wait.
func (l *Listener) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.srv.Shutdown(ctx); err != nil {
		l.logger.Warn("oauth callback shutdown", zap.Error(err))
	}
}
