package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/cache"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/sqlite"
	"cwsdash/infrastructure/tokenseal"
)

func newTestManager(t *testing.T, backendURL string) *Manager {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	sealer, err := tokenseal.NewSealer("station-secret", &tokenseal.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	logger := config.DiscardLogger()
	client := backend.NewClient(backendURL, time.Second, logger)
	m := NewManager(db, sealer, cache.NewUserSessionCache(), cache.NewStoreRegistry(), nil, client, logger, 12*time.Hour)
	client.OnUnauthorized(m.Unauthorized)
	return m
}

func loginResult(token string) backend.LoginResult {
	name, email, role := "Aline", "aline@cws.rw", "Operator"
	return backend.LoginResult{
		Token: token,
		User:  backend.User{ID: 7, Name: &name, Email: &email, Role: &role},
	}
}

func TestOpenAndResolveFromDatabase(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0")
	ctx := context.Background()

	opened, err := m.Open(ctx, loginResult("backend-token-1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Role != "operator" || opened.Name != "Aline" || opened.UserID != 7 {
		t.Fatalf("unexpected session %+v", opened)
	}
	if opened.SealedToken == "" || opened.SealedToken == "backend-token-1" {
		t.Fatalf("token must be stored sealed, got %q", opened.SealedToken)
	}

	// Simulate a restart: only the database row survives.
	m.Sessions.DeleteSessionBySessionToken(opened.ID)

	resolved, ok := m.Resolve(ctx, opened.ID)
	if !ok {
		t.Fatalf("expected session to resolve from db")
	}
	if resolved.BackendToken != "backend-token-1" {
		t.Fatalf("expected unsealed token, got %q", resolved.BackendToken)
	}
	if _, ok := m.Sessions.FindSessionBySessionToken(opened.ID); !ok {
		t.Fatalf("expected resolved session to be cached")
	}
}

func TestResolveExpiredSessionEndsIt(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0")
	ctx := context.Background()

	opened, err := m.Open(ctx, loginResult("backend-token-2"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m.Now = func() time.Time { return time.Now().Add(13 * time.Hour) }

	if _, ok := m.Resolve(ctx, opened.ID); ok {
		t.Fatalf("expected expired session to be rejected")
	}
	if _, err := loadSession(ctx, m.DB, opened.ID); err == nil {
		t.Fatalf("expected expired row to be deleted")
	}
}

func TestEndDropsStoreAndRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	m := newTestManager(t, srv.URL)
	ctx := context.Background()
	opened, err := m.Open(ctx, loginResult("backend-token-3"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := m.Store(opened)
	if again := m.Store(opened); again != s {
		t.Fatalf("expected one store per session")
	}
	s.Wait()

	m.End(ctx, opened.ID)
	if !s.Closed() {
		t.Fatalf("expected store to be closed")
	}
	if m.Stores.Len() != 0 {
		t.Fatalf("expected registry to be empty")
	}
	if _, ok := m.Resolve(ctx, opened.ID); ok {
		t.Fatalf("expected ended session to be gone")
	}
}

func TestBackendUnauthorizedEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	m := newTestManager(t, srv.URL)
	ctx := context.Background()
	opened, err := m.Open(ctx, loginResult("backend-token-4"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := m.Store(opened)
	s.Wait()

	if _, ok := m.Sessions.FindSessionBySessionToken(opened.ID); ok {
		t.Fatalf("expected session to be dropped after 401")
	}
	if !s.Closed() {
		t.Fatalf("expected store to be closed after 401")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0")
	ctx := context.Background()
	opened, err := m.Open(ctx, loginResult("backend-token-5"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m.Now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	m.Sweep(ctx)

	if _, ok := m.Sessions.FindSessionBySessionToken(opened.ID); ok {
		t.Fatalf("expected cache entry to be swept")
	}
	if _, err := loadSession(ctx, m.DB, opened.ID); err == nil {
		t.Fatalf("expected row to be swept")
	}
}
