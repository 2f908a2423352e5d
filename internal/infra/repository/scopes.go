package repository

import (
	repo "treeshop/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// offset/limitでページングする。limit<=0なら全件
func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 {
			return db.Offset(offset)
		}
		return db.Offset(offset).Limit(limit)
	}
}

// 監査ログの絞り込み
func auditLogFilter(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		conds := map[string]interface{}{}
		if f.ActorUserID != nil {
			conds["actor_user_id"] = *f.ActorUserID
		}
		if f.Action != nil {
			conds["action"] = string(*f.Action)
		}
		if f.ResourceType != nil {
			conds["resource_type"] = string(*f.ResourceType)
		}
		if f.ResourceID != nil {
			conds["resource_id"] = *f.ResourceID
		}
		if len(conds) > 0 {
			db = db.Where(conds)
		}

		if f.CreatedFrom != nil {
			db = db.Where("created_at >= ?", *f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			db = db.Where("created_at <= ?", *f.CreatedTo)
		}
		return db
	}
}
