package repository

import (
	"context"

	"treeshop/internal/domain/model"
)

// カテゴリの永続化を約束
type CategoryRepository interface {
	// 親・子・商品数付きで新しい順
	List(ctx context.Context) ([]model.Category, error)
	// 親・子を付けて返す
	FindByID(ctx context.Context, id string) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
	ChildIDs(ctx context.Context, parentID string) ([]string, error)
	// 親IDを返す。親が無ければnil
	ParentID(ctx context.Context, id string) (*string, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) (model.Category, error)
	Delete(ctx context.Context, id string) error
}
