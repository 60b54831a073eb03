package property

import (
	"context"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/repository"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, f repository.PropertyFilters) ([]domain.Property, int64, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.Property, error)
	Update(ctx context.Context, id string, changes map[string]any) error
	UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error
	DeleteWithHistory(ctx context.Context, id string) error
}

type BookingRepository interface {
	ListActiveForProperty(ctx context.Context, propertyID string, today time.Time) ([]domain.Booking, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}
