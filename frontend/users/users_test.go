package users

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"cwsdash/frontend/shared/webtest"
	"cwsdash/infrastructure/store"
)

func TestUsersPage(t *testing.T) {
	b := webtest.NewBackend(t)
	b.Set("/users", `[{"id":1,"name":"Aline","email":"aline@cws.rw","role":"FINANCE"},{"id":2,"name":"Eric","email":"eric@cws.rw","role":"operator","active":false}]`)
	session := webtest.Session("admin")
	s := b.Store(t, session, store.Seasons)

	rec := webtest.Serve(UsersPageQueryHandler(), webtest.Request(http.MethodGet, "/cws/users", nil, session, s))
	body := rec.Body.String()
	for _, want := range []string{"<td>aline@cws.rw</td>", "<td>finance</td>", "badge-inactive", `<option value="sustainability"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in users page", want)
		}
	}
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		errMsg   string
		wantCall bool
	}{
		{
			name:   "bad role",
			form:   url.Values{"name": {"Eric"}, "email": {"eric@cws.rw"}, "password": {"harvest2025"}, "role": {"manager"}},
			errMsg: "role must be one of: admin, operator, finance, sustainability",
		},
		{
			name:   "weak password",
			form:   url.Values{"name": {"Eric"}, "email": {"eric@cws.rw"}, "password": {"harvesting"}, "role": {"operator"}},
			errMsg: "password must include a letter and a digit",
		},
		{
			name:     "created",
			form:     url.Values{"name": {"Eric"}, "email": {"Eric@CWS.rw"}, "password": {"harvest2025"}, "role": {"Operator"}},
			wantCall: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := webtest.NewBackend(t)
			session := webtest.Session("admin")
			s := b.Store(t, session, store.Users)

			rec := webtest.Serve(CreateUserCommandHandler(b.Client, webtest.Audit(t)), webtest.Request(http.MethodPost, "/cws/users", tt.form, session, s))
			status, errMsg := webtest.Flash(rec)
			if errMsg != tt.errMsg {
				t.Fatalf("unexpected error %q", errMsg)
			}
			calls := b.Calls(http.MethodPost, "/auth/register")
			if tt.wantCall {
				if status != "user eric@cws.rw created" || len(calls) != 1 || calls[0].Body["role"] != "operator" {
					t.Fatalf("unexpected result %q %+v", status, calls)
				}
			} else if len(calls) != 0 {
				t.Fatalf("rejected user must not reach the backend")
			}
		})
	}
}
