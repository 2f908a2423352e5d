package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 商品カテゴリ。ParentIDで親子（ツリー）を作る。
type Category struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Image       *string    `gorm:"type:text" json:"image"`
	ParentID    *string    `gorm:"type:uuid;index" json:"parent_id"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products    []Product  `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// 一覧表示用（カラムではない）
	ProductCount int64 `gorm:"-" json:"product_count"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
