package application

import (
	"context"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	HasPending(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
	Approve(ctx context.Context, id, reviewerID string, at time.Time, promote bool) error
	Reject(ctx context.Context, id, reviewerID string, at time.Time, reason string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

type Notifier interface {
	NotifyApplicationApproved(ctx context.Context, a *domain.Application)
	NotifyApplicationRejected(ctx context.Context, a *domain.Application, reason string)
}
