package sessionapp

import (
	"context"
	"errors"
	"sync"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ErrSignInInFlight rejects a second OAuth start for the same provider
// while the first has not finished.
var ErrSignInInFlight = errors.New("sign-in already in progress for this provider")

// Service is the session gate: it owns the current {user, profile},
// re-resolves it on demand, and tells subscribers when identity changes.
// Resolution failures degrade to the signed-out state and are logged,
// never surfaced as blocking errors.
type Service struct {
	Gateway authPort.Gateway
	Logger  *zap.Logger

	mu      sync.RWMutex
	current *session.Session
	subs    map[int]func(*session.Session)
	nextSub int
	oauth   map[authPort.Provider]bool
}

func NewSessionService(gateway authPort.Gateway, logger *zap.Logger) *Service {
	return &Service{
		Gateway: gateway,
		Logger:  logger,
		subs:    make(map[int]func(*session.Session)),
		oauth:   make(map[authPort.Provider]bool),
	}
}

// Current returns the last resolved session, or nil when signed out.
func (s *Service) Current() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh re-resolves the session from the auth service. Any error is
// treated as signed-out: the previous identity is cleared and the error
// logged. Subscribers fire only when the identity actually changed.
func (s *Service) Refresh(ctx context.Context) *session.Session {
	sess, err := s.Gateway.CurrentUser(ctx)
	if err != nil {
		s.Logger.Warn("session refresh failed, treating as signed out", zap.Error(err))
		sess = nil
	}
	s.set(sess)
	return sess
}

// Subscribe registers a callback invoked whenever the signed-in user
// changes (including sign-out). The returned func cancels it.
func (s *Service) Subscribe(fn func(*session.Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SignUp registers an email/password identity, then resolves the full
// session. The service's own error message is returned verbatim.
func (s *Service) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	if _, err := s.Gateway.SignUp(ctx, email, password); err != nil {
		return nil, err
	}
	return s.Refresh(ctx), nil
}

// SignInWithPassword authenticates, then resolves the full session.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	if _, err := s.Gateway.SignInWithPassword(ctx, email, password); err != nil {
		return nil, err
	}
	return s.Refresh(ctx), nil
}

// BeginOAuth builds the provider authorization URL for a manual
// redirect. A per-provider in-flight flag prevents duplicate starts;
// call EndOAuth when the flow finishes or is abandoned. The returned
// verifier must be passed back to CompleteOAuth.
func (s *Service) BeginOAuth(provider authPort.Provider, redirectTo string) (url, state, verifier string, err error) {
	s.mu.Lock()
	if s.oauth[provider] {
		s.mu.Unlock()
		return "", "", "", ErrSignInInFlight
	}
	s.oauth[provider] = true
	s.mu.Unlock()

	state = uuid.Must(uuid.NewV4()).String()
	pkce := authPort.NewPKCE()
	url, err = s.Gateway.AuthorizationURL(authPort.OAuthRequest{
		Provider:      provider,
		RedirectTo:    redirectTo,
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		s.EndOAuth(provider)
		return "", "", "", err
	}
	return url, state, pkce.Verifier, nil
}

// EndOAuth clears the in-flight flag for a provider.
func (s *Service) EndOAuth(provider authPort.Provider) {
	s.mu.Lock()
	delete(s.oauth, provider)
	s.mu.Unlock()
}

// CompleteOAuth exchanges the callback code for a session.
func (s *Service) CompleteOAuth(ctx context.Context, provider authPort.Provider, code, verifier string) (*session.Session, error) {
	defer s.EndOAuth(provider)
	if _, err := s.Gateway.ExchangeCode(ctx, code, verifier); err != nil {
		return nil, err
	}
	return s.Refresh(ctx), nil
}

// SignOut revokes the session and clears local identity. The revoke
// error is logged but local state is cleared regardless, so no stale
// per-component state survives.
func (s *Service) SignOut(ctx context.Context) {
	if err := s.Gateway.SignOut(ctx); err != nil {
		s.Logger.Warn("sign-out request failed", zap.Error(err))
	}
	s.set(nil)
}

func (s *Service) set(next *session.Session) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	changed := prev.UserID() != next.UserID()
	var fns []func(*session.Session)
	if changed {
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
