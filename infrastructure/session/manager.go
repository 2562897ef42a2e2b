package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/cache"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/livefeed"
	"cwsdash/infrastructure/rbac"
	"cwsdash/infrastructure/sqlite"
	"cwsdash/infrastructure/store"
	"cwsdash/infrastructure/tokenseal"
	"cwsdash/models"
)

// Manager owns the life of a dashboard session: the sealed row in sqlite,
// the opened copy in the cache, and the collection store fed by the backend.
type Manager struct {
	DB       *sqlite.DB
	Sealer   *tokenseal.Sealer
	Sessions *cache.UserSessionCache
	Stores   *cache.StoreRegistry
	Hub      *livefeed.Hub
	Client   *backend.Client
	Logger   *logrus.Logger
	TTL      time.Duration
	Now      func() time.Time
}

func NewManager(db *sqlite.DB, sealer *tokenseal.Sealer, sessions *cache.UserSessionCache, stores *cache.StoreRegistry, hub *livefeed.Hub, client *backend.Client, logger *logrus.Logger, ttl time.Duration) *Manager {
	return &Manager{
		DB:       db,
		Sealer:   sealer,
		Sessions: sessions,
		Stores:   stores,
		Hub:      hub,
		Client:   client,
		Logger:   logger,
		TTL:      ttl,
		Now:      time.Now,
	}
}

// Open creates a session for a successful backend login.
func (m *Manager) Open(ctx context.Context, res backend.LoginResult) (models.Session, error) {
	if res.Token == "" {
		return models.Session{}, errors.New("backend returned no token")
	}
	sealed, err := m.Sealer.Seal(res.Token)
	if err != nil {
		return models.Session{}, fmt.Errorf("seal backend token: %w", err)
	}
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode user: %w", err)
	}

	now := m.Now()
	session := models.Session{
		ID:           NewID(),
		SealedToken:  sealed,
		UserID:       res.User.ID,
		Name:         deref(res.User.Name),
		Email:        deref(res.User.Email),
		Role:         rbac.NormalizeRole(deref(res.User.Role)),
		UserJSON:     string(userJSON),
		BackendToken: res.Token,
		ExpiresAt:    Expiry(res.Token, m.TTL, now),
	}
	if err := persistSession(ctx, m.DB, session); err != nil {
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}
	m.Sessions.AddSession(session)
	return session, nil
}

// Resolve finds a live session by id, from the cache first and then from
// sqlite. Expired or unreadable sessions are ended and reported missing.
func (m *Manager) Resolve(ctx context.Context, id string) (models.Session, bool) {
	if id == "" {
		return models.Session{}, false
	}
	if cached, ok := m.Sessions.FindSessionBySessionToken(id); ok {
		if m.Now().After(cached.ExpiresAt) {
			m.End(ctx, id)
			return models.Session{}, false
		}
		return cached, true
	}

	row, err := loadSession(ctx, m.DB, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			config.LogError(m.Logger, "session", "Resolve", "load session", id, err)
		}
		return models.Session{}, false
	}
	if m.Now().After(row.ExpiresAt) {
		m.End(ctx, id)
		return models.Session{}, false
	}
	token, err := m.Sealer.Open(row.SealedToken)
	if err != nil {
		config.LogError(m.Logger, "session", "Resolve", "open sealed token", id, err)
		m.End(ctx, id)
		return models.Session{}, false
	}
	row.BackendToken = token
	m.Sessions.AddSession(row)
	return row, true
}

// End forgets the session everywhere. Safe to call more than once.
func (m *Manager) End(ctx context.Context, id string) {
	m.Sessions.DeleteSessionBySessionToken(id)
	m.Stores.Drop(id)
	if m.Hub != nil {
		m.Hub.DropSession(id)
	}
	if err := deleteSession(ctx, m.DB, id); err != nil {
		config.LogError(m.Logger, "session", "End", "delete session", id, err)
	}
}

// Store returns the session's collection store, creating and starting it
// on first use. Applied updates are pushed to the session's live feed.
func (m *Manager) Store(session models.Session) *store.Store {
	s, _ := m.Stores.GetOrCreate(session.ID, func() *store.Store {
		s := store.New(m.Client.WithToken(session.BackendToken), m.Logger)
		if m.Hub != nil {
			id := session.ID
			s.Subscribe(func(c store.Collection) {
				m.Hub.Publish(id, livefeed.Event{Collection: string(c), Version: s.Version(c)})
			})
		}
		s.Start()
		return s
	})
	return s
}

// Unauthorized is the backend client's 401 hook.
func (m *Manager) Unauthorized(token string) {
	session, ok := m.Sessions.FindSessionByBackendToken(token)
	if !ok {
		return
	}
	m.Logger.WithFields(logrus.Fields{"module": "session", "session_id": session.ID}).Info("backend token rejected, ending session")
	m.End(context.Background(), session.ID)
}

// Sweep ends every expired session in the cache and removes expired rows.
func (m *Manager) Sweep(ctx context.Context) {
	now := m.Now()
	for _, id := range m.Sessions.DeleteExpired(now) {
		m.End(ctx, id)
	}
	n, err := deleteExpiredSessions(ctx, m.DB, now)
	if err != nil {
		config.LogError(m.Logger, "session", "Sweep", "delete expired sessions", nil, err)
		return
	}
	if n > 0 {
		m.Logger.WithFields(logrus.Fields{"module": "session", "removed": n}).Debug("expired sessions removed")
	}
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
