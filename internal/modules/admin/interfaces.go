package admin

import (
	"context"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error)
	CountByArchived(ctx context.Context) (active, archived int64, err error)
	SetArchived(ctx context.Context, id string, at *time.Time, from *domain.PropertyStatus, to domain.PropertyStatus) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}
