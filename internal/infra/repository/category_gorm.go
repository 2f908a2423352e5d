package repository

import (
	"context"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

type categoryCount struct {
	CategoryID string
	N          int64
}

// 親・子・商品数付きで新しい順に返す
func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category

	err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children").
		Order("created_at desc").
		Find(&cats).Error
	if err != nil {
		return []model.Category{}, mapError(err)
	}

	//商品数をまとめて数える
	var counts []categoryCount
	err = r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, count(*) as n").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return []model.Category{}, mapError(err)
	}

	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.N
	}
	for i := range cats {
		cats[i].ProductCount = byID[cats[i].ID]
	}

	return cats, nil
}

// IDでカテゴリを取得（親・子・商品付き）
func (r *CategoryGormRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	if !isUUID(id) {
		return model.Category{}, repo.ErrNotFound
	}

	var c model.Category
	err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children").
		Preload("Products").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return model.Category{}, mapError(err)
	}
	c.ProductCount = int64(len(c.Products))
	return c, nil
}

func (r *CategoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children").
		Where("slug = ?", slug).
		First(&c).Error
	if err != nil {
		return model.Category{}, mapError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, mapError(err)
}

func (r *CategoryGormRepository) ChildIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("parent_id = ?", parentID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

func (r *CategoryGormRepository) ParentID(ctx context.Context, id string) (*string, error) {
	if !isUUID(id) {
		return nil, repo.ErrNotFound
	}

	var c model.Category
	err := r.db.WithContext(ctx).
		Select("id", "parent_id").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, mapError(err)
	}
	return c.ParentID, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Omit("Parent", "Children", "Products").Create(&c).Error; err != nil {
		return model.Category{}, mapError(err)
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) (model.Category, error) {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"image":       c.Image,
		"parent_id":   c.ParentID,
	})
	if res.Error != nil {
		return model.Category{}, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Category{}, repo.ErrNotFound
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CategoryGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
