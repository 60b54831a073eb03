package repository

import (
	"context"
	"strings"

	"circlepoint/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropertyFilters struct {
	City   string
	Status domain.PropertyStatus
	// Location matches part of the city or the address.
	Location    string
	MinRate     *decimal.Decimal
	MaxRate     *decimal.Decimal
	MinBedrooms int
	Limit       int
	Offset      int
}

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) DB() *gorm.DB { return r.db }

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context, f PropertyFilters) ([]domain.Property, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.Property{})
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		like := "%" + escapeLike(strings.ToLower(loc)) + "%"
		q = q.Where(`(LOWER(city) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.MinRate != nil {
		q = q.Where("nightly_rate >= ?", *f.MinRate)
	}
	if f.MaxRate != nil {
		q = q.Where("nightly_rate <= ?", *f.MaxRate)
	}
	if f.MinBedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.MinBedrooms)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Property
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByManager returns every property when managerID is empty.
func (r *PropertyRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&domain.Property{})
	if managerID != "" {
		q = q.Where("manager_id = ?", managerID)
	}
	var items []domain.Property
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Property{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Update writes the given columns. Keys are column names.
func (r *PropertyRepository) Update(ctx context.Context, id string, changes map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Property{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithHistory removes the property together with its completed and
// cancelled bookings in one transaction.
func (r *PropertyRepository) DeleteWithHistory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("property_id = ? AND status IN ?", id, []domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled}).
			Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Property{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
