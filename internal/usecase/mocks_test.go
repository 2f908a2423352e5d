package usecase_test

import (
	"context"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: ProductRepository
// =====================

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDOrSlug(ctx context.Context, key string) (model.Product, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: CategoryRepository
// =====================

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ChildIDs(ctx context.Context, parentID string) ([]string, error) {
	args := m.Called(ctx, parentID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockCategoryRepository) ParentID(ctx context.Context, id string) (*string, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*string)
	return p, args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: AuditLogRepository
// =====================

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Fake: TransactionManager（モックrepoをそのまま渡す）
// =====================

type fakeTxRepos struct {
	categories *MockCategoryRepository
	products   *MockProductRepository
	auditLogs  *MockAuditLogRepository
}

func (r *fakeTxRepos) Categories() repo.CategoryRepository { return r.categories }
func (r *fakeTxRepos) Products() repo.ProductRepository     { return r.products }
func (r *fakeTxRepos) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type fakeTxManager struct {
	repos *fakeTxRepos
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f.repos)
}

func strPtr(s string) *string { return &s }
