package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/cache"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/livefeed"
	"cwsdash/infrastructure/session"
	"cwsdash/infrastructure/sqlite"
	"cwsdash/infrastructure/tokenseal"
)

// fakeCWS is a stand-in for the CWS REST backend. Every user's password is
// "harvest2025" and their token is "tok-<role>".
type fakeCWS struct {
	mu      sync.Mutex
	revoked map[string]bool
	posts   []fakePost
}

type fakePost struct {
	Path  string
	Token string
	Body  map[string]any
}

func (f *fakeCWS) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
}

func (f *fakeCWS) postsTo(path string) []fakePost {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakePost
	for _, p := range f.posts {
		if p.Path == path {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeCWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/auth/login" {
		var in backend.LoginInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		role, _, _ := strings.Cut(in.Email, "@")
		if in.Password != "harvest2025" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"token":"tok-`+role+`","user":{"id":7,"name":"Test `+role+`","email":"`+in.Email+`","role":"`+role+`"}}}`)
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	revoked := f.revoked[token]
	f.mu.Unlock()
	if token == "" || revoked {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Token expired"}`)
		return
	}

	if r.Method == http.MethodGet {
		switch r.URL.Path {
		case "/seasons":
			_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"2025A","active":true}]}`)
		case "/farmers":
			_, _ = io.WriteString(w, `{"data":[{"id":3,"name":"Jean Bosco","phone":"+250788123456","location":{"sector":"Huye"},"active":true}]}`)
		case "/revenues":
			_, _ = io.WriteString(w, `{"data":[{"id":1,"buyer":"Rwacof","quantity_kg":"100","unit_price":"5000","season_id":1}]}`)
		default:
			_, _ = io.WriteString(w, `{"data":[]}`)
		}
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.posts = append(f.posts, fakePost{Path: r.URL.Path, Token: token, Body: body})
	f.mu.Unlock()
	body["id"] = 55
	out, _ := json.Marshal(map[string]any{"data": body, "message": "created"})
	_, _ = w.Write(out)
}

type integrationEnv struct {
	server   *httptest.Server
	backend  *fakeCWS
	sessions *session.Manager
}

func setupIntegrationServer(t *testing.T) *integrationEnv {
	t.Helper()
	fake := &fakeCWS{revoked: make(map[string]bool)}
	backendSrv := httptest.NewServer(fake)
	t.Cleanup(backendSrv.Close)

	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "server-integration.db"))
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
	client := backend.NewClient(backendSrv.URL, 2*time.Second, logger)
	hub := livefeed.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	stores := cache.NewStoreRegistry()
	manager := session.NewManager(db, sealer, cache.NewUserSessionCache(), stores, hub, client, logger, time.Hour)
	client.OnUnauthorized(manager.Unauthorized)
	t.Cleanup(func() {
		cancel()
		stores.CloseAll()
	})

	s := NewServer("127.0.0.1:0", Deps{
		Client:      client,
		Sessions:    manager,
		Audit:       audit.NewService(db, logger),
		Hub:         hub,
		Logger:      logger,
		PhoneRegion: "RW",
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &integrationEnv{server: ts, backend: fake, sessions: manager}
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func cookieValue(t *testing.T, client *http.Client, baseURL, name string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	if token := cookieValue(t, client, baseURL, csrfCookieName); token != "" {
		data.Set(csrfFormField, token)
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func loginAs(t *testing.T, env *integrationEnv, role string) *http.Client {
	t.Helper()
	client := newHTTPClient(t)
	resp := get(t, client, env.server.URL, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, env.server.URL, "/login", url.Values{
		"email":    {role + "@cws.rw"},
		"password": {"harvest2025"},
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/cws/dashboard" {
		t.Fatalf("expected login redirect to dashboard, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	id := cookieValue(t, client, env.server.URL, session.CookieName)
	if id == "" {
		t.Fatalf("expected session cookie after login")
	}
	if st, ok := env.sessions.Stores.Get(id); ok {
		st.Wait()
	}
	return client
}

func TestHealthAndAnonymousRedirects(t *testing.T) {
	env := setupIntegrationServer(t)
	client := newHTTPClient(t)

	resp := get(t, client, env.server.URL, "/health")
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}

	for _, path := range []string{"/", "/cws/dashboard", "/cws/finance"} {
		resp := get(t, client, env.server.URL, path)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther || !strings.HasPrefix(resp.Header.Get("Location"), "/login") {
			t.Fatalf("%s: expected redirect to login, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp = get(t, client, env.server.URL, "/assets/app.css")
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || !strings.Contains(body, "topnav") {
		t.Fatalf("expected stylesheet, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupIntegrationServer(t)
	client := newHTTPClient(t)
	_ = get(t, client, env.server.URL, "/login").Body.Close()

	resp := postForm(t, client, env.server.URL, "/login", url.Values{"email": {"operator@cws.rw"}, "password": {"wrong-password1"}})
	_ = resp.Body.Close()
	loc, _ := url.Parse(resp.Header.Get("Location"))
	if resp.StatusCode != http.StatusSeeOther || loc.Path != "/login" || loc.Query().Get("error") != "invalid email or password" {
		t.Fatalf("unexpected login failure response %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "operator")

	resp, err := client.PostForm(env.server.URL+"/cws/farmers", url.Values{"name": {"Jean"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
	if len(env.backend.postsTo("/farmers")) != 0 {
		t.Fatalf("rejected form must not reach the backend")
	}
}

func TestRoleRestrictsScreensAndNav(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "operator")

	resp := get(t, client, env.server.URL, "/cws/dashboard")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `href="/cws/farmers"`) || strings.Contains(body, `href="/cws/finance"`) {
		t.Fatalf("operator nav must show farmers and hide finance")
	}

	for _, path := range []string{"/cws/finance", "/cws/users", "/cws/finance/statement.pdf"} {
		resp := get(t, client, env.server.URL, path)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403 for operator, got %d", path, resp.StatusCode)
		}
	}
}

func TestOperatorRecordsFarmer(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "operator")

	resp := postForm(t, client, env.server.URL, "/cws/farmers", url.Values{
		"name": {"Marie Uwase"}, "phone": {"0788 123 457"}, "sector": {"Huye"}, "active": {"on"},
	})
	_ = resp.Body.Close()
	loc, _ := url.Parse(resp.Header.Get("Location"))
	if resp.StatusCode != http.StatusSeeOther || loc.Path != "/cws/farmers" || loc.Query().Get("error") != "" {
		t.Fatalf("unexpected create response %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	posts := env.backend.postsTo("/farmers")
	if len(posts) != 1 {
		t.Fatalf("expected one farmer create, got %d", len(posts))
	}
	if posts[0].Token != "tok-operator" || posts[0].Body["phone"] != "+250788123457" {
		t.Fatalf("unexpected backend call %+v", posts[0])
	}

	resp = get(t, client, env.server.URL, "/cws/farmers")
	if body := readBody(t, resp); !strings.Contains(body, "Jean Bosco") {
		t.Fatalf("expected farmers list")
	}
}

func TestFinanceExportsStatement(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "finance")

	resp := get(t, client, env.server.URL, "/cws/finance")
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || !strings.Contains(body, "500,000 RWF") {
		t.Fatalf("expected finance page with revenue, got %d", resp.StatusCode)
	}

	resp = get(t, client, env.server.URL, "/cws/finance/statement.xlsx")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(body, "PK") {
		t.Fatalf("expected xlsx workbook, got %d", resp.StatusCode)
	}
}

func TestBackendUnauthorizedEndsSession(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "operator")
	env.backend.revoke("tok-operator")

	resp := postForm(t, client, env.server.URL, "/cws/refresh", url.Values{"collection": {"farmers"}})
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/cws/dashboard")
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || !strings.HasPrefix(resp.Header.Get("Location"), "/login") {
		t.Fatalf("expected redirect to login after backend 401, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "admin")
	id := cookieValue(t, client, env.server.URL, session.CookieName)

	resp := postForm(t, client, env.server.URL, "/logout", nil)
	_ = resp.Body.Close()
	if resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %q", resp.Header.Get("Location"))
	}
	if _, ok := env.sessions.Resolve(context.Background(), id); ok {
		t.Fatalf("session must be gone after logout")
	}
}

func TestLiveFeedPushesRefreshedCollection(t *testing.T) {
	env := setupIntegrationServer(t)
	client := loginAs(t, env, "operator")
	id := cookieValue(t, client, env.server.URL, session.CookieName)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/cws/live"
	header := http.Header{"Cookie": {session.CookieName + "=" + id}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial live feed: %v", err)
	}
	defer conn.Close()

	// The hub registers the connection in the handler goroutine; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !hasLiveClient(env, id) {
		time.Sleep(10 * time.Millisecond)
	}

	resp := postForm(t, client, env.server.URL, "/cws/refresh", url.Values{"collection": {"farmers"}})
	_ = resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("expected a farmers event: %v", err)
		}
		var ev livefeed.Event
		if err := json.Unmarshal(msg, &ev); err == nil && ev.Collection == "farmers" {
			return
		}
	}
}

func hasLiveClient(env *integrationEnv, sessionID string) bool {
	return env.sessions.Hub.ClientsCount(sessionID) > 0
}
