// Package webtest holds the fixtures shared by the page handler tests: a
// fake CWS backend and requests carrying a session and its store.
package webtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "cwsdash/frontend/shared/context"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/sqlite"
	"cwsdash/infrastructure/store"
	"cwsdash/models"
)

// Call is one request received by the fake backend.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// Backend answers GETs from Data (path to JSON payload, wrapped in the
// envelope) and echoes write bodies back as the created record.
type Backend struct {
	Server *httptest.Server
	Client *backend.Client

	mu     sync.Mutex
	data   map[string]string
	fail   map[string]int
	calls  []Call
	nextID int
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{data: make(map[string]string), fail: make(map[string]int), nextID: 100}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	b.Client = backend.NewClient(b.Server.URL, 2*time.Second, config.DiscardLogger())
	return b
}

// Set makes GET path answer with payload.
func (b *Backend) Set(path, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[path] = payload
}

// Fail makes every request to "METHOD path" answer with status.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[method+" "+path] = status
}

// Recover undoes Fail for "METHOD path".
func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fail, method+" "+path)
}

func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
	status, failing := b.fail[r.Method+" "+r.URL.Path]
	payload, known := b.data[r.URL.Path]
	b.nextID++
	id := b.nextID
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"message":"backend refused the request"}`)
		return
	}
	if r.Method == http.MethodGet {
		if !known {
			payload = "[]"
		}
		_, _ = io.WriteString(w, `{"data":`+payload+`}`)
		return
	}
	if body == nil {
		body = map[string]any{}
	}
	if _, ok := body["id"]; !ok {
		body["id"] = id
	}
	out, _ := json.Marshal(map[string]any{"data": body, "message": "ok"})
	_, _ = w.Write(out)
}

// Session returns a logged-in session of role with every screen granted.
func Session(role string) models.Session {
	return models.Session{
		ID:                "session-" + role,
		UserID:            1,
		Name:              "Test " + role,
		Email:             role + "@cws.rw",
		Role:              role,
		BackendToken:      "token-" + role,
		ExpiresAt:         time.Now().Add(time.Hour),
		ScreenPermissions: map[string]int{},
	}
}

// Store returns a loaded store over the fake backend.
func (b *Backend) Store(t *testing.T, session models.Session, collections ...store.Collection) *store.Store {
	t.Helper()
	s := store.New(b.Client.WithToken(session.BackendToken), config.DiscardLogger())
	t.Cleanup(s.Close)
	if len(collections) == 0 {
		collections = store.InitialLoad
	}
	s.Refresh(context.Background(), collections...)
	return s
}

// Audit returns an activity service over a fresh sqlite file.
func Audit(t *testing.T) *audit.Service {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return audit.NewService(db, config.DiscardLogger())
}

// Request builds a request carrying session and store. form, when not nil,
// is sent urlencoded. params are chi URL params as name, value pairs.
func Request(method, target string, form url.Values, session models.Session, s *store.Store, params ...string) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ctx := sessioncontext.NewContextWithSession(r.Context(), session)
	ctx = sessioncontext.NewContextWithStore(ctx, s)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

// Serve runs h and returns the recorder.
func Serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// Flash extracts the status or error message of a redirect.
func Flash(rec *httptest.ResponseRecorder) (status, errMsg string) {
	u, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		return "", ""
	}
	return u.Query().Get("status"), u.Query().Get("error")
}
