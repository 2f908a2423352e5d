package handler_test

import (
	"context"
	"strings"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"github.com/google/uuid"
)

// メモリ上の商品リポジトリ（ハンドラの結合テスト用）
type fakeProducts struct {
	items []model.Product
	err   error
}

func (f *fakeProducts) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []model.Product
	for _, p := range f.items {
		if len(q.CategoryIDs) > 0 && !contains(q.CategoryIDs, p.CategoryID) {
			continue
		}
		if q.Q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) {
			continue
		}
		if q.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	total := int64(len(out))
	if q.Limit > 0 {
		start := (q.Page - 1) * q.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + q.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (f *fakeProducts) FindByID(ctx context.Context, id string) (model.Product, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (f *fakeProducts) FindByIDOrSlug(ctx context.Context, key string) (model.Product, error) {
	for _, p := range f.items {
		if p.ID == key || p.Slug == key {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (f *fakeProducts) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (f *fakeProducts) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	for _, p := range f.items {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeProducts) Update(ctx context.Context, p model.Product) (model.Product, error) {
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = p
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

// メモリ上のカテゴリリポジトリ
type fakeCategories struct {
	items []model.Category
	err   error
}

func (f *fakeCategories) List(ctx context.Context) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCategories) FindByID(ctx context.Context, id string) (model.Category, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (f *fakeCategories) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (f *fakeCategories) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.FindByID(ctx, id)
	return err == nil, nil
}

func (f *fakeCategories) ChildIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	for _, c := range f.items {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeCategories) ParentID(ctx context.Context, id string) (*string, error) {
	c, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.ParentID, nil
}

func (f *fakeCategories) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	f.items = append(f.items, c)
	return c, nil
}

func (f *fakeCategories) Update(ctx context.Context, c model.Category) (model.Category, error) {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = c
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (f *fakeCategories) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

// 記録だけする監査ログ
type memAuditLogs struct {
	entries []model.AuditLog
}

func (m *memAuditLogs) Create(ctx context.Context, l model.AuditLog) error {
	l.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, l)
	return nil
}

func (m *memAuditLogs) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if f.ResourceType != nil && e.ResourceType != *f.ResourceType {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
