package web

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkarimov/baytalhikma/internal/config"
)

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sm, err := NewSessionManager(db, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)
	return sm
}

func TestSessionManager_Flash(t *testing.T) {
	sm := setupSessionManager(t)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)

	sm.SetFlash(r, "success", "Book 'T' by A added successfully!")

	flash, ok := sm.PopFlash(r)
	require.True(t, ok)
	assert.Equal(t, "success", flash.Kind)
	assert.Equal(t, "Book 'T' by A added successfully!", flash.Message)

	// Flash is one-shot
	_, ok = sm.PopFlash(r)
	assert.False(t, ok)
}

func TestSessionManager_NoPendingFlash(t *testing.T) {
	sm := setupSessionManager(t)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)

	_, ok := sm.PopFlash(r)
	assert.False(t, ok)
}
