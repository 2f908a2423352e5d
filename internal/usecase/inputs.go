package usecase

import "github.com/shopspring/decimal"

// 管理画面からのカテゴリ入力
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	ParentID    *string `json:"parent_id"`
}

// 管理画面からの商品入力
type ProductInput struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	// 省略時はtrue
	InStock    *bool  `json:"in_stock"`
	CategoryID string `json:"category_id"`
}

// usecaseがValidatorInterfaceに依存する約束
type CatalogValidator interface {
	ValidateCategory(in CategoryInput) error
	ValidateProduct(in ProductInput) error
}
