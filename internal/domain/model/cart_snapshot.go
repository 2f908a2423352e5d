package model

import "time"

// セッションごとのカート状態（KV）。CART_STORE=postgres のときに使う。
type CartSnapshot struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null;index"`
}
