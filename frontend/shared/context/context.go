package context

import (
	"context"

	"cwsdash/infrastructure/store"
	"cwsdash/models"
)

type sessionKey struct{}
type storeKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// NewContextWithStore attaches the session's collection store.
func NewContextWithStore(ctx context.Context, s *store.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

func GetStoreFromContext(ctx context.Context) (*store.Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*store.Store)
	return s, ok && s != nil
}
