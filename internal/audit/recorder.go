// Package audit writes activity log entries. Recording never fails the
// operation that triggered it: store errors are logged and dropped.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"circlepoint/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Store interface {
	Create(ctx context.Context, l *domain.AuditLog) error
}

type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
}

type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// WithClock replaces the timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}

	details := datatypes.JSON("{}")
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			slog.Warn("audit: encode details", "action", e.Action, "entity_id", e.EntityID, "error", err)
		} else {
			details = datatypes.JSON(raw)
		}
	}

	l := &domain.AuditLog{
		ID:         uuid.NewString(),
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    details,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.Create(ctx, l); err != nil {
		slog.Warn("audit: record failed",
			"action", e.Action,
			"entity_type", e.EntityType,
			"entity_id", e.EntityID,
			"actor_id", e.ActorID,
			"error", err,
		)
	}
}
