package repository

import (
	"context"
	"strings"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ/検索/価格帯/在庫/ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if len(q.CategoryIDs) > 0 {
		tx = tx.Where("category_id IN ?", q.CategoryIDs)
	}

	// q nameを対象
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("name ILIKE ?", "%"+s+"%")
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	if q.InStockOnly {
		tx = tx.Where("in_stock = ?", true)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, mapError(err)
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	if err := tx.Scopes(paginate(q.Limit, (page-1)*q.Limit)).Preload("Category.Parent").Find(&products).Error; err != nil {
		return []model.Product{}, 0, mapError(err)
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	if !isUUID(id) {
		return model.Product{}, repo.ErrNotFound
	}

	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category.Parent").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return model.Product{}, mapError(err)
	}
	return p, nil
}

// idでもslugでも引けるようにする（詳細ページ用）
func (r *ProductGormRepository) FindByIDOrSlug(ctx context.Context, key string) (model.Product, error) {
	var p model.Product

	tx := r.db.WithContext(ctx).Preload("Category.Parent")
	if isUUID(key) {
		tx = tx.Where("id = ? OR slug = ?", key, key)
	} else {
		tx = tx.Where("slug = ?", key)
	}

	if err := tx.First(&p).Error; err != nil {
		return model.Product{}, mapError(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&p).Error
	if err != nil {
		return model.Product{}, mapError(err)
	}
	return p, nil
}

func (r *ProductGormRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, mapError(err)
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category").Create(&p).Error; err != nil {
		return model.Product{}, mapError(err)
	}
	return r.FindByID(ctx, p.ID)
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"image":       p.Image,
		"images":      p.Images,
		"in_stock":    p.InStock,
		"category_id": p.CategoryID,
	})
	if res.Error != nil {
		return model.Product{}, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Product{}, repo.ErrNotFound
	}
	return r.FindByID(ctx, p.ID)
}

// 商品削除
func (r *ProductGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
