package booking

import (
	"context"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, reviewerID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	HasOverlap(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListForManager(ctx context.Context, f repository.ManagerBookingFilters) ([]domain.Booking, int64, error)
	CompletePast(ctx context.Context, today, at time.Time) ([]domain.Booking, error)
}

type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

// Notifier is called after a change has been stored. Implementations must
// not fail the caller.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, manager *domain.User, b *domain.Booking, p *domain.Property)
	NotifyBookingConfirmed(ctx context.Context, guest *domain.User, b *domain.Booking, p *domain.Property)
	NotifyBookingCancelled(ctx context.Context, guest *domain.User, b *domain.Booking, p *domain.Property)
}
