package repository

import (
	"context"

	"treeshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 一覧検索
type ProductListQuery struct {
	// 空なら全カテゴリ
	CategoryIDs []string
	Q           string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	Sort        string
	Page        int
	Limit       int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// idかslugのどちらかで探す
	FindByIDOrSlug(ctx context.Context, key string) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id string) error
}
