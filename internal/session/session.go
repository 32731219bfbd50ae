// Package session owns the bearer token lifecycle: expiry tracking, the
// two scheduled prompts (session expired, extend offer) and the silent
// refresh against the remote auth service.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shopfront/internal/models"
	"shopfront/internal/shopapi"
	"shopfront/internal/storage"
)

// extendLead is the minimum lead time before expiry at which the extend
// offer should fire. Sessions shorter than 1.5x the lead get a
// proportionally smaller lead of 0.3x instead.
const extendLead = 3 * time.Minute

// AnonymousLogin scopes cart and preference ledgers when nobody is
// signed in.
const AnonymousLogin = "anonymous"

// ErrSessionReplaced is returned when an extend call resolves after the
// credentials it started from were replaced or cleared. The response is
// discarded instead of overwriting the newer session.
var ErrSessionReplaced = errors.New("session: credentials replaced mid-flight")

// Claims is what the frontend reads out of the bearer token. Decoded
// without signature verification; the secret lives on the backend.
type Claims struct {
	Roles    []string `json:"roles"`
	Language string   `json:"language"`
	jwt.RegisteredClaims
}

// Prompter receives the user-facing outcomes of the lifecycle timers.
// UI frameworks are pure consumers behind this interface.
type Prompter interface {
	// SessionExpired is the blocking modal shown after a confirmed
	// expiry; the caller has already been signed out.
	SessionExpired()
	// OfferExtend is the modal offering to renew the session.
	OfferExtend()
	// Notify is a non-blocking toast identified by a message key.
	Notify(messageKey string)
}

// Extender is the slice of the shop API the manager needs.
type Extender interface {
	ExtendSession(ctx context.Context, refreshToken, token string) (*models.TokenPair, error)
}

type Manager struct {
	store    storage.Store
	api      Extender
	prompter Prompter
	log      *slog.Logger

	// now is swapped out by tests.
	now func() time.Time

	// gen counts credential epochs. Every SetTokens/Logout bumps it;
	// an extend response from an older epoch is discarded.
	gen atomic.Uint64

	expiredTask task
	extendTask  task
}

func NewManager(store storage.Store, api Extender, prompter Prompter, log *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		api:      api,
		prompter: prompter,
		log:      log,
		now:      time.Now,
	}
}

func (m *Manager) Token() string {
	v, err := m.store.Get(storage.KeyToken)
	if err != nil {
		return ""
	}
	return v
}

func (m *Manager) RefreshToken() string {
	v, err := m.store.Get(storage.KeyRefreshToken)
	if err != nil {
		return ""
	}
	return v
}

// Claims decodes the stored token. Any failure reads as "no session".
func (m *Manager) Claims() (*Claims, error) {
	raw := m.Token()
	if raw == "" {
		return nil, errors.New("session: no token")
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Login is the subject claim of the current token, or AnonymousLogin
// when nobody is signed in. Cart and preference ledgers key off this.
func (m *Manager) Login() string {
	claims, err := m.Claims()
	if err != nil || claims.Subject == "" {
		return AnonymousLogin
	}
	return claims.Subject
}

func (m *Manager) Roles() []string {
	claims, err := m.Claims()
	if err != nil {
		return nil
	}
	return claims.Roles
}

// IsTokenExpired never returns an error: a missing or undecodable token
// is expired by definition.
func (m *Manager) IsTokenExpired() bool {
	claims, err := m.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return !m.now().Before(claims.ExpiresAt.Time)
}

func (m *Manager) IsUserSignedIn() bool {
	return !m.IsTokenExpired()
}

// ExpiredDelay is the time until the stored token expires. Non-positive
// means "already expired, fire immediately".
func (m *Manager) ExpiredDelay() time.Duration {
	claims, err := m.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(m.now())
}

// ExtendPromptDelay computes when the extend offer should fire: extendLead
// before expiry, or 0.3x the lead for sessions shorter than 1.5x the
// lead. ok is false when no expiry is known and no prompt gets scheduled.
func (m *Manager) ExtendPromptDelay() (delay time.Duration, ok bool) {
	claims, err := m.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return 0, false
	}
	remaining := claims.ExpiresAt.Time.Sub(m.now())
	if remaining <= extendLead*3/2 {
		return remaining - extendLead*3/10, true
	}
	return remaining - extendLead, true
}

// ScheduleExpiredPrompt arms the expiry backstop. If the token turns out
// not to be expired when the timer fires (clock drift, or it was
// refreshed without resetting the timer) the timer re-arms itself; this
// is a polling fallback, not an exact one-shot.
func (m *Manager) ScheduleExpiredPrompt() {
	m.expiredTask.Restart(m.ExpiredDelay(), m.onExpiredTimer)
}

func (m *Manager) onExpiredTimer() {
	if !m.IsTokenExpired() {
		m.expiredTask.Restart(m.ExpiredDelay(), m.onExpiredTimer)
		return
	}
	// No dialog for a user who was never signed in.
	if m.Token() == "" {
		return
	}
	m.log.Info("session expired, forcing sign-out")
	m.clearCredentials()
	m.gen.Add(1)
	m.prompter.SessionExpired()
}

func (m *Manager) ScheduleExtendPrompt() {
	delay, ok := m.ExtendPromptDelay()
	if !ok {
		return
	}
	m.extendTask.Restart(delay, func() {
		if m.IsUserSignedIn() {
			m.prompter.OfferExtend()
		}
	})
}

// ExtendSession exchanges the refresh token for a new pair and re-arms
// the extend prompt. On failure the old token stays in place; the expiry
// timer remains the backstop and the user only sees a toast.
func (m *Manager) ExtendSession(ctx context.Context) (*models.TokenPair, error) {
	token := m.Token()
	refresh := m.RefreshToken()
	gen := m.gen.Load()

	pair, err := m.api.ExtendSession(ctx, refresh, token)
	if err != nil {
		m.log.Warn("session extend failed", "error", err)
		m.prompter.Notify(messageKey(err))
		return nil, err
	}

	if m.gen.Load() != gen {
		m.log.Info("discarding stale extend response")
		return nil, ErrSessionReplaced
	}

	m.SetTokens(pair)
	m.ScheduleExtendPrompt()
	return pair, nil
}

// SetTokens persists a fresh pair and starts a new credential epoch.
// Callers re-arm the prompts for the new expiry.
func (m *Manager) SetTokens(pair *models.TokenPair) {
	m.setOrDelete(storage.KeyToken, pair.Token)
	m.setOrDelete(storage.KeyRefreshToken, pair.RefreshToken)
	if claims, err := m.Claims(); err == nil && claims.ExpiresAt != nil {
		m.setOrDelete(storage.KeyTokenTimeout, strconv.FormatInt(claims.ExpiresAt.Unix(), 10))
		if claims.Language != "" {
			m.setOrDelete(storage.KeyLocale, claims.Language)
		}
	}
	m.gen.Add(1)
}

func (m *Manager) Locale() string {
	v, err := m.store.Get(storage.KeyLocale)
	if err != nil {
		return ""
	}
	return v
}

// Logout clears every persisted session key and any pending timers.
func (m *Manager) Logout() {
	m.clearCredentials()
	m.gen.Add(1)
	m.expiredTask.Stop()
	m.extendTask.Stop()
}

// Close tears down pending timers without touching stored credentials.
func (m *Manager) Close() {
	m.expiredTask.Stop()
	m.extendTask.Stop()
}

func (m *Manager) clearCredentials() {
	for _, key := range []string{
		storage.KeyToken,
		storage.KeyRefreshToken,
		storage.KeyLocale,
		storage.KeyTokenTimeout,
	} {
		if err := m.store.Delete(key); err != nil {
			m.log.Warn("clearing session key failed", "key", key, "error", err)
		}
	}
}

func (m *Manager) setOrDelete(key, value string) {
	var err error
	if value == "" {
		err = m.store.Delete(key)
	} else {
		err = m.store.Set(key, value)
	}
	if err != nil {
		m.log.Warn("persisting session key failed", "key", key, "error", err)
	}
}

func messageKey(err error) string {
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.MessageKey
	}
	return shopapi.FallbackMessageKey
}
