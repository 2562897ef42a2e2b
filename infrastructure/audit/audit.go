package audit

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"cwsdash/infrastructure/sqlite"
	"cwsdash/models"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Service writes the local activity trail. A failed write is logged and
// never blocks the user action it describes.
type Service struct {
	db     *sqlite.DB
	logger *logrus.Logger
}

func NewService(db *sqlite.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Entry describes one dashboard action.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Detail     any
	Err        error
}

func (s *Service) Record(ctx context.Context, session models.Session, e Entry) {
	if s == nil || s.db == nil {
		return
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, session, e)
	})
	if err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"module": "audit",
			"action": e.Action,
			"entity": e.EntityType,
			"err":    err.Error(),
		}).Error("failed to record activity")
	}
}

// Write inserts the entry inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, session models.Session, e Entry) error {
	detail, err := marshal(e.Detail)
	if err != nil {
		return err
	}
	outcome := OutcomeOK
	if e.Err != nil {
		outcome = OutcomeFailed
	}
	log := &models.ActivityLog{
		SessionID:  session.ID,
		UserID:     session.UserID,
		UserName:   session.Name,
		Role:       session.Role,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		DetailJSON: detail,
		Outcome:    outcome,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// Recent returns the newest activity of one backend user.
func (s *Service) Recent(ctx context.Context, userID int64, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.ActivityLog
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&rows).
			Where("al.user_id = ?", userID).
			OrderExpr("al.id DESC").
			Limit(limit).
			Scan(ctx)
	})
	return rows, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
