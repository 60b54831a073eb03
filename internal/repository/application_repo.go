package repository

import (
	"context"
	"time"

	"circlepoint/internal/domain"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) DB() *gorm.DB { return r.db }

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	return duplicate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *ApplicationRepository) HasPending(ctx context.Context, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("user_id = ? AND status = ?", userID, domain.ApplicationPending).
		Count(&cnt).Error
	return cnt > 0, err
}

// List returns applications newest first; an empty status means all.
func (r *ApplicationRepository) List(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Model(&domain.Application{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []domain.Application
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[domain.ApplicationStatus]int64{
		domain.ApplicationPending:  0,
		domain.ApplicationApproved: 0,
		domain.ApplicationRejected: 0,
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// Approve marks a pending application approved and, when promote is set,
// raises the applicant from user to manager in the same transaction. A role
// other than user is never touched.
func (r *ApplicationRepository) Approve(ctx context.Context, id, reviewerID string, at time.Time, promote bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := reviewPending(tx, id, map[string]any{
			"status":      domain.ApplicationApproved,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"updated_at":  at,
		})
		if err != nil {
			return err
		}
		if !promote {
			return nil
		}
		return tx.Model(&domain.User{}).
			Where("id = ? AND role = ?", a.UserID, domain.RoleUser).
			Update("role", domain.RoleManager).Error
	})
}

func (r *ApplicationRepository) Reject(ctx context.Context, id, reviewerID string, at time.Time, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := reviewPending(tx, id, map[string]any{
			"status":           domain.ApplicationRejected,
			"reviewed_by":      reviewerID,
			"reviewed_at":      at,
			"rejection_reason": reason,
			"updated_at":       at,
		})
		return err
	})
}

func reviewPending(tx *gorm.DB, id string, updates map[string]any) (*domain.Application, error) {
	var a domain.Application
	if err := tx.First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	res := tx.Model(&domain.Application{}).
		Where("id = ? AND status = ?", id, domain.ApplicationPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleState
	}
	return &a, nil
}
