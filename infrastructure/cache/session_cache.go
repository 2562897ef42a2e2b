package cache

import (
	"sync"
	"time"

	"cwsdash/models"
)

// UserSessionCache keeps opened sessions (backend token in clear) by
// session id so requests skip the database and the unseal.
type UserSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: make(map[string]models.Session)}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

func (c *UserSessionCache) FindSessionBySessionToken(id string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

// FindSessionByBackendToken is used by the backend 401 hook, which only
// knows the bearer token that was rejected.
func (c *UserSessionCache) FindSessionByBackendToken(token string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if token == "" {
		return models.Session{}, false
	}
	for _, s := range c.sessions {
		if s.BackendToken == token {
			return s, true
		}
	}
	return models.Session{}, false
}

func (c *UserSessionCache) DeleteSessionBySessionToken(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

// DeleteExpired drops sessions past their expiry and returns their ids.
func (c *UserSessionCache) DeleteExpired(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id, s := range c.sessions {
		if now.After(s.ExpiresAt) {
			ids = append(ids, id)
			delete(c.sessions, id)
		}
	}
	return ids
}
