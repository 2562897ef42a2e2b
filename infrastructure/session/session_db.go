package session

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"cwsdash/infrastructure/sqlite"
	"cwsdash/models"
)

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		row := session
		row.CreatedAt = time.Now()
		row.UpdatedAt = row.CreatedAt
		_, err := tx.NewInsert().Model(&row).Exec(ctx)
		return err
	})
}

func deleteSession(ctx context.Context, db *sqlite.DB, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

// loadSession returns the stored row; the token is still sealed.
func loadSession(ctx context.Context, db *sqlite.DB, id string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&session).
			Where("s.id = ?", id).
			Limit(1).
			Scan(ctx)
	})
	return session, err
}

func deleteExpiredSessions(ctx context.Context, db *sqlite.DB, now time.Time) (int64, error) {
	var n int64
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Session)(nil)).Where("expires_at < ?", now).Exec(ctx)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}
