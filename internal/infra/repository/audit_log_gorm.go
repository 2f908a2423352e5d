package repository

import (
	"context"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"gorm.io/gorm"
)

// 管理者操作の記録（追記のみ）
type AuditLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return mapError(r.db.WithContext(ctx).Create(&entry).Error)
}

// 新しい順。limitは既定50、最大200
func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	logs := []model.AuditLog{}
	err := r.db.WithContext(ctx).
		Scopes(auditLogFilter(f), paginate(limit, f.Offset)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, mapError(err)
	}
	return logs, nil
}
