package repository

import (
	"context"
	"strings"
	"time"

	"circlepoint/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

// UserFilters narrows List. Archived is nil for every account.
type UserFilters struct {
	Archived *bool
	Role     domain.UserRole
	Query    string
	Limit    int
	Offset   int
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return duplicate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f UserFilters) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Archived != nil {
		if *f.Archived {
			q = q.Where("archived_at IS NOT NULL")
		} else {
			q = q.Where("archived_at IS NULL")
		}
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if v := strings.TrimSpace(f.Query); v != "" {
		like := "%" + escapeLike(strings.ToLower(v)) + "%"
		q = q.Where(`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\')`, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByArchived returns how many accounts are active and archived.
func (r *UserRepository) CountByArchived(ctx context.Context) (active, archived int64, err error) {
	var rows []struct {
		Archived bool
		Total    int64
	}
	err = r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("archived_at IS NOT NULL AS archived, COUNT(*) AS total").
		Group("archived_at IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		if row.Archived {
			archived = row.Total
		} else {
			active = row.Total
		}
	}
	return active, archived, nil
}

// SetArchived stamps or clears archived_at and, in the same transaction,
// moves every property the user manages from one status to another. A nil
// from matches any status. It returns the number of properties changed.
func (r *UserRepository) SetArchived(ctx context.Context, id string, at *time.Time, from *domain.PropertyStatus, to domain.PropertyStatus) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("id = ?", id).Update("archived_at", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		q := tx.Model(&domain.Property{}).Where("manager_id = ? AND status <> ?", id, to)
		if from != nil {
			q = q.Where("status = ?", *from)
		}
		res = q.Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		return nil
	})
	return moved, err
}
