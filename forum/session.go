// forum/session.go
package forum

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// Session keys. The cookie only ever carries the opaque scs token; the
// user id and flash data live server-side.
const (
	sessionUserKey     = "userID"
	sessionFlashKey    = "flash"
	sessionFlashCatKey = "flashCategory"
	sessionLifetime    = 24 * time.Hour
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Message  string
	Category string // "success" or "danger"
}

// SessionManager wraps scs with the two identity states the forum cares
// about: anonymous (no userID in the session) and authenticated.
type SessionManager struct {
	*scs.SessionManager
}

func NewSessionManager() *SessionManager {
	sm := scs.New()
	sm.Lifetime = sessionLifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return &SessionManager{SessionManager: sm}
}

// SignIn transitions the session to Authenticated(userID). The token is
// renewed first so a pre-login session id is never reused.
func (m *SessionManager) SignIn(ctx context.Context, userID string) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, sessionUserKey, userID)
	return nil
}

// SignOut transitions back to Anonymous, invalidating the stored identity.
func (m *SessionManager) SignOut(ctx context.Context) error {
	return m.Destroy(ctx)
}

// CurrentUserID returns the authenticated user id, or "" for Anonymous.
func (m *SessionManager) CurrentUserID(ctx context.Context) string {
	return m.GetString(ctx, sessionUserKey)
}

// PutFlash stores a one-shot notice for the next page render.
func (m *SessionManager) PutFlash(ctx context.Context, category, message string) {
	m.Put(ctx, sessionFlashKey, message)
	m.Put(ctx, sessionFlashCatKey, category)
}

// PopFlash removes and returns the pending notice, or nil.
func (m *SessionManager) PopFlash(ctx context.Context) *Flash {
	msg := m.PopString(ctx, sessionFlashKey)
	if msg == "" {
		return nil
	}
	return &Flash{Message: msg, Category: m.PopString(ctx, sessionFlashCatKey)}
}
