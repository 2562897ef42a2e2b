package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	sessioncontext "cwsdash/frontend/shared/context"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/cache"
	"cwsdash/infrastructure/livefeed"
	"cwsdash/infrastructure/rbac"
	"cwsdash/infrastructure/session"
)

//go:embed assets/*
var staticAssets embed.FS

var ShutdownTimeout = 5 * time.Second

// Deps are the long-lived services the routes hand to page handlers.
type Deps struct {
	Client      *backend.Client
	Sessions    *session.Manager
	RbacCache   *cache.RbacRolesCache
	Audit       *audit.Service
	Hub         *livefeed.Hub
	Logger      *logrus.Logger
	PhoneRegion string
	Now         func() time.Time
}

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	Client      *backend.Client
	Sessions    *session.Manager
	RbacCache   *cache.RbacRolesCache
	Rbac        *rbac.Rbac
	Audit       *audit.Service
	Hub         *livefeed.Hub
	Logger      *logrus.Logger
	PhoneRegion string
	Now         func() time.Time
}

// NewServer creates a new http server.
func NewServer(addr string, deps Deps) *Server {
	if deps.RbacCache == nil {
		deps.RbacCache = cache.NewRbacRolesCache()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		Addr:        addr,
		router:      chi.NewRouter(),
		Client:      deps.Client,
		Sessions:    deps.Sessions,
		RbacCache:   deps.RbacCache,
		Rbac:        rbac.New(deps.RbacCache),
		Audit:       deps.Audit,
		Hub:         deps.Hub,
		Logger:      deps.Logger,
		PhoneRegion: deps.PhoneRegion,
		Now:         deps.Now,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if _, ok := s.Sessions.Resolve(r.Context(), cookie.Value); !ok {
			http.SetCookie(w, session.SessionCookie("", -1))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/cws/dashboard", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var assetsFS fs.FS = staticAssets
	if sub, err := fs.Sub(staticAssets, "assets"); err == nil {
		assetsFS = sub
	} else {
		s.Logger.WithError(err).Error("assets subfs init failed; serving fallback fs")
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.RegisterLoginRoutes()

	s.router.Route("/cws", func(r chi.Router) {
		r.Use(s.AuthenticateMiddleware)
		s.RegisterFrontendRoutes(r)
		s.RegisterAdminRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AuthenticateMiddleware resolves the session cookie, applies the RBAC
// route table and attaches the session and its store to the request.
func (s *Server) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sess, ok := s.Sessions.Resolve(r.Context(), cookie.Value)
		if !ok {
			s.Logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Warn("session not found or expired")
			http.SetCookie(w, session.SessionCookie("", -1))
			http.Redirect(w, r, "/login?error=your+session+has+expired", http.StatusSeeOther)
			return
		}

		roles := []string{sess.Role}
		if !s.Rbac.Allowed(roles, r.URL.Path, r.Method) {
			s.Logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path, "role": sess.Role}).Warn("route not granted")
			http.Error(w, "you do not have access to this page", http.StatusForbidden)
			return
		}
		sess.ScreenPermissions = s.Rbac.Screens(roles)

		st := s.Sessions.Store(sess)
		ctx := sessioncontext.NewContextWithSession(r.Context(), sess)
		ctx = sessioncontext.NewContextWithStore(ctx, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.WithError(err).Error("http server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
