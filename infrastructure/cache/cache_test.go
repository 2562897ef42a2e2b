package cache

import (
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"cwsdash/infrastructure/store"
	"cwsdash/models"
)

func TestSessionCacheExpiryAndBackendToken(t *testing.T) {
	c := NewUserSessionCache()
	now := time.Now()
	c.AddSession(models.Session{ID: "live", BackendToken: "tok-live", ExpiresAt: now.Add(time.Hour)})
	c.AddSession(models.Session{ID: "old", BackendToken: "tok-old", ExpiresAt: now.Add(-time.Minute)})

	if s, ok := c.FindSessionByBackendToken("tok-live"); !ok || s.ID != "live" {
		t.Fatalf("expected lookup by backend token")
	}
	if _, ok := c.FindSessionByBackendToken(""); ok {
		t.Fatalf("empty token must not match")
	}

	expired := c.DeleteExpired(now)
	if len(expired) != 1 || expired[0] != "old" {
		t.Fatalf("unexpected expired ids %v", expired)
	}
	if _, ok := c.FindSessionBySessionToken("old"); ok {
		t.Fatalf("expired session still cached")
	}
}

func TestStoreRegistryLifecycle(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	r := NewStoreRegistry()
	calls := 0
	create := func() *store.Store {
		calls++
		return store.New(nil, logger)
	}

	first, created := r.GetOrCreate("sess", create)
	if !created {
		t.Fatalf("expected store to be created")
	}
	second, created := r.GetOrCreate("sess", create)
	if created || second != first || calls != 1 {
		t.Fatalf("expected the same store to be reused")
	}

	r.Drop("sess")
	if !first.Closed() {
		t.Fatalf("dropped store must be closed")
	}
	if _, ok := r.Get("sess"); ok || r.Len() != 0 {
		t.Fatalf("dropped store still registered")
	}
}

func TestRbacRoleCodes(t *testing.T) {
	c := NewRbacRolesCache()
	c.Add("finance", Resource{UserResourceCode: "FINANCE", Method: "GET", Path: "/cws/finance"})
	c.Add("finance", Resource{UserResourceCode: "ASSETS", Method: "GET", Path: "/cws/assets"})
	c.Add("finance", Resource{UserResourceCode: "FINANCE", Method: "POST", Path: "/cws/finance/expenses"})
	c.Add("admin", Resource{UserResourceCode: "USERS", Method: "GET", Path: "/cws/users"})

	codes := c.RoleCodes("finance")
	if len(codes) != 2 || codes[0] != "ASSETS" || codes[1] != "FINANCE" {
		t.Fatalf("unexpected codes %v", codes)
	}
	if all := c.RouteNamesSorted(); len(all) != 3 {
		t.Fatalf("unexpected route names %v", all)
	}
}
