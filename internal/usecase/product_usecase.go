package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	validator    CatalogValidator
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	validator CatalogValidator,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		validator:    validator,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	CategoryID string
	Page       int
	Limit      int
	Q          string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    bool
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	q := repo.ProductListQuery{
		Q:           strings.TrimSpace(in.Q),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		InStockOnly: in.InStock,
		Sort:        in.Sort,
		Page:        in.Page,
		Limit:       in.Limit,
	}

	// カテゴリ指定時は直下の子カテゴリの商品も含める。
	// 存在しないカテゴリなら絞り込まない。
	if in.CategoryID != "" {
		ok, err := u.categoryRepo.Exists(ctx, in.CategoryID)
		if err != nil {
			return ProductListOutput{}, dbErr(err)
		}
		if ok {
			children, err := u.categoryRepo.ChildIDs(ctx, in.CategoryID)
			if err != nil {
				return ProductListOutput{}, dbErr(err)
			}
			q.CategoryIDs = append([]string{in.CategoryID}, children...)
		}
	}

	items, total, err := u.productRepo.List(ctx, q)
	if err != nil {
		return ProductListOutput{}, dbErr(err)
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// idでもslugでも
func (u *ProductUsecase) Get(ctx context.Context, key string) (model.Product, error) {
	if strings.TrimSpace(key) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByIDOrSlug(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, dbErr(err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, adminUserID string, in ProductInput) (model.Product, error) {
	if adminUserID == "" {
		return model.Product{}, errUnauthorize
	}
	if err := u.validator.ValidateProduct(in); err != nil {
		return model.Product{}, err
	}

	if err := u.ensureSlugFree(ctx, in.Slug); err != nil {
		return model.Product{}, err
	}
	if err := u.ensureCategory(ctx, in.CategoryID); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, toProduct(in))
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "product slug already exists")
	}
	if err != nil {
		return model.Product{}, dbErr(err)
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, auditProduct(p)); err != nil {
		return model.Product{}, dbErr(err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdate(ctx context.Context, adminUserID string, productID string, in ProductInput) (model.Product, error) {
	if adminUserID == "" {
		return model.Product{}, errUnauthorize
	}

	existing, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, dbErr(err)
	}

	if err := u.validator.ValidateProduct(in); err != nil {
		return model.Product{}, err
	}

	//slugが変わる時だけ
	if in.Slug != existing.Slug {
		if err := u.ensureSlugFree(ctx, in.Slug); err != nil {
			return model.Product{}, err
		}
	}
	if in.CategoryID != existing.CategoryID {
		if err := u.ensureCategory(ctx, in.CategoryID); err != nil {
			return model.Product{}, err
		}
	}

	next := toProduct(in)
	next.ID = productID

	updated, err := u.productRepo.Update(ctx, next)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "product slug already exists")
	}
	if err != nil {
		return model.Product{}, dbErr(err)
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionUpdate, model.AuditResourceProduct, productID, auditProduct(existing), auditProduct(updated)); err != nil {
		return model.Product{}, dbErr(err)
	}
	return updated, nil
}

func (u *ProductUsecase) AdminDelete(ctx context.Context, adminUserID string, productID string) error {
	if adminUserID == "" {
		return errUnauthorize
	}

	existing, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return dbErr(err)
	}

	err = u.productRepo.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return dbErr(err)
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionDelete, model.AuditResourceProduct, productID, auditProduct(existing), nil); err != nil {
		return dbErr(err)
	}
	return nil
}

func (u *ProductUsecase) ensureSlugFree(ctx context.Context, slug string) error {
	_, err := u.productRepo.FindBySlug(ctx, slug)
	if err == nil {
		return NewHTTPError(http.StatusBadRequest, "product slug already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return dbErr(err)
	}
	return nil
}

func (u *ProductUsecase) ensureCategory(ctx context.Context, categoryID string) error {
	ok, err := u.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return dbErr(err)
	}
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "category not found")
	}
	return nil
}

func toProduct(in ProductInput) model.Product {
	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Images:      model.ImageList(in.Images),
		InStock:     true,
		CategoryID:  in.CategoryID,
	}
	if p.Images == nil {
		p.Images = model.ImageList{}
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Image != "" {
		img := in.Image
		p.Image = &img
	}
	return p
}

func auditProduct(p model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"slug":        p.Slug,
		"price":       p.Price.StringFixed(2),
		"image":       p.Image,
		"images":      p.Images,
		"in_stock":    p.InStock,
		"category_id": p.CategoryID,
	}
}
