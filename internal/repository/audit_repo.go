package repository

import (
	"context"

	"circlepoint/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, l *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error) {
	var items []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").
		Find(&items).Error
	return items, err
}
