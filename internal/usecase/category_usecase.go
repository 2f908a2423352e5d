package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"
)

// 親をたどる上限（壊れたデータで無限ループしないように）
const maxCategoryDepth = 64

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	tx           repo.TransactionManager
	validator    CatalogValidator
}

// DI
func NewCategoryUsecase(
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	tx repo.TransactionManager,
	validator CatalogValidator,
) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		tx:           tx,
		validator:    validator,
	}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	return cats, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id string) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, dbErr(err)
	}
	return c, nil
}

func (u *CategoryUsecase) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	c, err := u.categoryRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, dbErr(err)
	}
	return c, nil
}

func (u *CategoryUsecase) AdminCreate(ctx context.Context, adminUserID string, in CategoryInput) (model.Category, error) {
	if adminUserID == "" {
		return model.Category{}, errUnauthorize
	}
	if err := u.validator.ValidateCategory(in); err != nil {
		return model.Category{}, err
	}

	//slug重複
	if err := u.ensureSlugFree(ctx, in.Slug); err != nil {
		return model.Category{}, err
	}

	if in.ParentID != nil {
		if err := u.ensureParentExists(ctx, *in.ParentID); err != nil {
			return model.Category{}, err
		}
	}

	c, err := u.categoryRepo.Create(ctx, toCategory(in))
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category slug already exists")
	}
	if err != nil {
		return model.Category{}, dbErr(err)
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionCreate, model.AuditResourceCategory, c.ID, nil, auditCategory(c)); err != nil {
		return model.Category{}, dbErr(err)
	}
	return c, nil
}

func (u *CategoryUsecase) AdminUpdate(ctx context.Context, adminUserID string, id string, in CategoryInput) (model.Category, error) {
	if adminUserID == "" {
		return model.Category{}, errUnauthorize
	}

	existing, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, dbErr(err)
	}

	if err := u.validator.ValidateCategory(in); err != nil {
		return model.Category{}, err
	}

	//slugが変わる時だけ重複チェック
	if in.Slug != existing.Slug {
		if err := u.ensureSlugFree(ctx, in.Slug); err != nil {
			return model.Category{}, err
		}
	}

	if in.ParentID != nil {
		if *in.ParentID == id {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, "category cannot be its own parent")
		}
		if err := u.ensureParentExists(ctx, *in.ParentID); err != nil {
			return model.Category{}, err
		}
		//子孫を親にするとループになる
		cyclic, err := u.isDescendant(ctx, *in.ParentID, id)
		if err != nil {
			return model.Category{}, dbErr(err)
		}
		if cyclic {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, "category cannot be moved under its own descendant")
		}
	}

	next := toCategory(in)
	next.ID = id

	updated, err := u.categoryRepo.Update(ctx, next)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category slug already exists")
	}
	if err != nil {
		return model.Category{}, dbErr(err)
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionUpdate, model.AuditResourceCategory, id, auditCategory(existing), auditCategory(updated)); err != nil {
		return model.Category{}, dbErr(err)
	}
	return updated, nil
}

// 子カテゴリや商品が残っていれば消せない
func (u *CategoryUsecase) AdminDelete(ctx context.Context, adminUserID string, id string) error {
	if adminUserID == "" {
		return errUnauthorize
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, err := r.Categories().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		if err != nil {
			return dbErr(err)
		}

		children, err := r.Categories().ChildIDs(ctx, id)
		if err != nil {
			return dbErr(err)
		}
		if len(children) > 0 {
			return NewHTTPError(http.StatusBadRequest, "category has subcategories")
		}

		n, err := r.Products().CountByCategory(ctx, id)
		if err != nil {
			return dbErr(err)
		}
		if n > 0 {
			return NewHTTPError(http.StatusBadRequest, "category has products")
		}

		if err := r.Categories().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "category not found")
			}
			return dbErr(err)
		}

		if err := writeAudit(ctx, r.AuditLogs(), adminUserID, model.AuditActionDelete, model.AuditResourceCategory, id, auditCategory(existing), nil); err != nil {
			return dbErr(err)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return dbErr(err)
	}
	return nil
}

func (u *CategoryUsecase) ensureSlugFree(ctx context.Context, slug string) error {
	_, err := u.categoryRepo.FindBySlug(ctx, slug)
	if err == nil {
		return NewHTTPError(http.StatusBadRequest, "category slug already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return dbErr(err)
	}
	return nil
}

func (u *CategoryUsecase) ensureParentExists(ctx context.Context, parentID string) error {
	ok, err := u.categoryRepo.Exists(ctx, parentID)
	if err != nil {
		return dbErr(err)
	}
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "parent category not found")
	}
	return nil
}

// candidateの祖先にidがいるか
func (u *CategoryUsecase) isDescendant(ctx context.Context, candidate string, id string) (bool, error) {
	cur := candidate
	for i := 0; i < maxCategoryDepth; i++ {
		parent, err := u.categoryRepo.ParentID(ctx, cur)
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		if *parent == id {
			return true, nil
		}
		cur = *parent
	}
	return true, nil
}

func toCategory(in CategoryInput) model.Category {
	c := model.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
	}
	if in.Image != "" {
		img := in.Image
		c.Image = &img
	}
	return c
}

// 監査ログに残す形（関連は含めない）
func auditCategory(c model.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"image":       c.Image,
		"parent_id":   c.ParentID,
	}
}
