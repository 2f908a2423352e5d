package kv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treeshop/internal/cart"
	"treeshop/internal/domain/model"
)

// Postgres（cart_snapshotsテーブル）に置くKVストア
type GormStore struct {
	db *gorm.DB
}

// DI
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row model.CartSnapshot

	err := g.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select cart snapshot %s", key)
	}
	return []byte(row.Value), nil
}

// keyが既にあれば上書き
func (g *GormStore) Set(ctx context.Context, key string, value []byte) error {
	row := model.CartSnapshot{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "upsert cart snapshot %s", key)
	}
	return nil
}

func (g *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.PingContext(ctx)
}
