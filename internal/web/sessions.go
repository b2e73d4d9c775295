// Package web provides the browser-facing plumbing shared by the HTML
// pages: cookie sessions with flash messages, CSRF protection, and
// security headers. There is no authentication; sessions exist only to
// carry one-shot notices across the POST-redirect-GET cycle.
package web

import (
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/rkarimov/baytalhikma/internal/config"
)

const sessionKeyFlash = "flash"

// Flash is a one-shot notice rendered on the next page view.
// Kind is "success" or "error".
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager wraps scs.SessionManager with flash-message helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// given SQLite connection. The sqlDB parameter should be the underlying
// *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.Lifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SetFlash stores a one-shot notice for the next rendered page.
func (sm *SessionManager) SetFlash(r *http.Request, kind, message string) {
	sm.Put(r.Context(), sessionKeyFlash, Flash{Kind: kind, Message: message})
}

// PopFlash retrieves and clears the pending notice, if any.
func (sm *SessionManager) PopFlash(r *http.Request) (Flash, bool) {
	v := sm.Pop(r.Context(), sessionKeyFlash)
	flash, ok := v.(Flash)
	return flash, ok
}
