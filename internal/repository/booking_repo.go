package repository

import (
	"context"
	"time"

	"circlepoint/internal/domain"

	"gorm.io/gorm"
)

var activeStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}

type ManagerBookingFilters struct {
	// ManagerID empty means every property (super-admin view).
	ManagerID  string
	PropertyID string
	Status     domain.BookingStatus
	Limit      int
	Offset     int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) DB() *gorm.DB { return r.db }

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// UpdateStatus moves a booking from one status to another. It only succeeds
// while the row is still in from, so a transition cannot apply twice.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, reviewerID string, at time.Time) error {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	if reviewerID != "" {
		updates["reviewed_by"] = reviewerID
		updates["reviewed_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrStale(ctx, id)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveForProperty returns pending/confirmed bookings whose check-out is
// on or after today.
func (r *BookingRepository) ListActiveForProperty(ctx context.Context, propertyID string, today time.Time) ([]domain.Booking, error) {
	var items []domain.Booking
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("status IN ?", activeStatuses).
		Where("check_out >= ?", today).
		Order("check_in").
		Find(&items).Error
	return items, err
}

// HasOverlap reports whether an active booking shares a night with
// [checkIn, checkOut). Back-to-back stays do not overlap.
func (r *BookingRepository) HasOverlap(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", activeStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var items []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *BookingRepository) ListForManager(ctx context.Context, f ManagerBookingFilters) ([]domain.Booking, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.ManagerID != "" {
		q = q.Where("property_id IN (?)",
			r.db.Model(&domain.Property{}).Select("id").Where("manager_id = ?", f.ManagerID))
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Booking
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CompletePast marks confirmed bookings whose check-out is before today as
// completed and returns them.
func (r *BookingRepository) CompletePast(ctx context.Context, today, at time.Time) ([]domain.Booking, error) {
	var done []domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND check_out < ?", domain.BookingConfirmed, today).
			Find(&done).Error; err != nil {
			return err
		}
		if len(done) == 0 {
			return nil
		}
		ids := make([]string, 0, len(done))
		for _, b := range done {
			ids = append(ids, b.ID)
		}
		return tx.Model(&domain.Booking{}).
			Where("id IN ? AND status = ?", ids, domain.BookingConfirmed).
			Updates(map[string]any{"status": domain.BookingCompleted, "updated_at": at}).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range done {
		done[i].Status = domain.BookingCompleted
		done[i].UpdatedAt = at
	}
	return done, nil
}

func (r *BookingRepository) missingOrStale(ctx context.Context, id string) error {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return ErrStaleState
}
