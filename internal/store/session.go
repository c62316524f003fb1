package store

import (
	"log/slog"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"shopctl/internal/httperr"
	"shopctl/internal/storage"
	"shopctl/pkg/domain"
)

// AuthAPI is the slice of the auth client the session store drives.
type AuthAPI interface {
	Login(email, password string) (string, error)
	Me(token string) (domain.Actor, error)
}

// SessionStore owns the authentication session: the access token, the
// confirmed actor behind it, and the durable token slot. A token that
// cannot be confirmed by the identity check is not a valid session.
type SessionStore struct {
	notifier

	api    AuthAPI
	tokens storage.TokenStore

	mu       sync.Mutex
	token    string
	actor    *domain.Actor
	inflight int
	errMsg   string
}

// NewSessionStore builds the session store and rehydrates any
// persisted token. A stored token whose identity confirmation fails is
// cleared silently; boot never surfaces an error to the UI.
func NewSessionStore(authAPI AuthAPI, tokens storage.TokenStore) *SessionStore {
	s := &SessionStore{api: authAPI, tokens: tokens}
	s.rehydrate()
	return s
}

func (s *SessionStore) rehydrate() {
	token, ok, err := s.tokens.Load()
	if err != nil {
		slog.Warn("session token load failed", "err", err)
		return
	}
	if !ok {
		return
	}
	if exp, known := tokenExpiry(token); known && time.Now().After(exp) {
		slog.Debug("stored session token already expired", "exp", exp)
		if err := s.tokens.Clear(); err != nil {
			slog.Warn("session token clear failed", "err", err)
		}
		return
	}
	s.token = token
	actor, err := s.api.Me(token)
	if err != nil {
		slog.Debug("session confirmation failed", "err", err)
		s.clearSession()
		return
	}
	s.actor = &actor
}

// Login exchanges credentials for a token, persists it, and confirms
// identity. A confirmation failure is treated as a full logout even
// though the token exchange succeeded. Returns whether the session is
// established.
func (s *SessionStore) Login(email, password string) bool {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	token, err := s.api.Login(email, password)
	if err != nil {
		s.fail("login", err)
		return false
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if err := s.tokens.Save(token); err != nil {
		slog.Warn("session token persist failed", "err", err)
	}
	s.notify()

	actor, err := s.api.Me(token)
	if err != nil {
		s.clearSession()
		s.fail("login confirm", err)
		return false
	}
	s.mu.Lock()
	s.inflight--
	s.actor = &actor
	s.mu.Unlock()
	slog.Info("session established", "email", actor.Email, "role", actor.Role)
	s.notify()
	return true
}

// Logout clears the token, the actor, and the durable slot. No network
// call is involved.
func (s *SessionStore) Logout() {
	s.clearSession()
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *SessionStore) clearSession() {
	s.mu.Lock()
	s.token = ""
	s.actor = nil
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		slog.Warn("session token clear failed", "err", err)
	}
}

func (s *SessionStore) fail(op string, err error) {
	msg := httperr.Translate(err)
	s.mu.Lock()
	s.inflight--
	s.errMsg = msg
	s.mu.Unlock()
	slog.Warn("session command failed", "op", op, "err", err)
	s.notify()
}

// Token returns the current access token, empty when logged out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a token is held. The actor may still
// be absent transiently between login and identity confirmation.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// IsAdmin reports whether the confirmed actor holds the admin role.
func (s *SessionStore) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor != nil && s.actor.Role == domain.RoleAdmin
}

// Actor returns the confirmed actor, if any.
func (s *SessionStore) Actor() (domain.Actor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actor == nil {
		return domain.Actor{}, false
	}
	return *s.actor, true
}

// Loading reports whether any session command is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err returns the error from the last settled command, cleared when
// the next command starts.
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// TokenExpiry reports the held token's expiry when it is a JWT
// carrying an exp claim.
func (s *SessionStore) TokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return time.Time{}, false
	}
	return tokenExpiry(token)
}

// tokenExpiry extracts the exp claim without verifying the signature;
// verification is the server's job. Opaque tokens report no expiry and
// are passed to the identity check untouched.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
