package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a dashboard login. The backend bearer token is stored sealed;
// the opened token only ever lives in memory.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                string         `bun:"id,pk"`
	SealedToken       string         `bun:"sealed_token,notnull"`
	UserID            int64          `bun:"user_id,notnull"`
	Name              string         `bun:"name,notnull"`
	Email             string         `bun:"email,notnull"`
	Role              string         `bun:"role,notnull"`
	UserJSON          string         `bun:"user_json"`
	BackendToken      string         `bun:"-"`
	ScreenPermissions map[string]int `bun:"-"`
	ExpiresAt         time.Time      `bun:"expires_at,notnull"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ActivityLog records dashboard-side actions: form submissions, exports,
// logins. The backend keeps its own audit trail of data changes.
type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id"`
	UserID     int64     `bun:"user_id,notnull"`
	UserName   string    `bun:"user_name,notnull"`
	Role       string    `bun:"role,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	DetailJSON string    `bun:"detail_json"`
	Outcome    string    `bun:"outcome,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
