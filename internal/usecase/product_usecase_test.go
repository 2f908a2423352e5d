package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"
	"treeshop/internal/usecase"
	"treeshop/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const productID = "p0000000-0000-0000-0000-000000000001"

func newProductUC() (*usecase.ProductUsecase, *MockProductRepository, *MockCategoryRepository, *MockAuditLogRepository) {
	products := new(MockProductRepository)
	cats := new(MockCategoryRepository)
	audit := new(MockAuditLogRepository)
	return usecase.NewProductUsecase(products, cats, audit, validator.NewCatalogValidator()), products, cats, audit
}

func validProductInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:       "Ель датская 1.5 м",
		Slug:       "el-datskaya-1-5",
		Price:      decimal.RequireFromString("120.50"),
		Image:      "https://images.example.com/el.jpg",
		CategoryID: childID,
	}
}

func TestProduct_List_IncludesChildCategories(t *testing.T) {
	uc, products, cats, _ := newProductUC()

	cats.On("Exists", mock.Anything, rootID).Return(true, nil)
	cats.On("ChildIDs", mock.Anything, rootID).Return([]string{childID, grandID}, nil)
	products.On("List", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return assert.ObjectsAreEqual([]string{rootID, childID, grandID}, q.CategoryIDs) &&
			q.Q == "ель" && q.InStockOnly && q.Sort == "price_asc"
	})).Return([]model.Product{{ID: productID}}, int64(1), nil)

	out, err := uc.List(context.Background(), usecase.ListProductsInput{
		CategoryID: rootID,
		Q:          "  ель ",
		InStock:    true,
		Sort:       "price_asc",
		Page:       1,
		Limit:      20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
	products.AssertExpectations(t)
}

func TestProduct_List_UnknownCategoryIsNotFiltered(t *testing.T) {
	uc, products, cats, _ := newProductUC()

	cats.On("Exists", mock.Anything, "missing").Return(false, nil)
	products.On("List", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return len(q.CategoryIDs) == 0
	})).Return([]model.Product{{ID: productID}}, int64(1), nil)

	out, err := uc.List(context.Background(), usecase.ListProductsInput{CategoryID: "missing", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	cats.AssertNotCalled(t, "ChildIDs", mock.Anything, mock.Anything)
	products.AssertExpectations(t)
}

func TestProduct_List_RejectsBadInput(t *testing.T) {
	uc, _, _, _ := newProductUC()
	lo := decimal.NewFromInt(100)
	hi := decimal.NewFromInt(50)

	cases := map[string]usecase.ListProductsInput{
		"page":  {Page: 0, Limit: 10},
		"limit": {Page: 1, Limit: 101},
		"sort":  {Page: 1, Limit: 10, Sort: "popular"},
		"range": {Page: 1, Limit: 10, MinPrice: &lo, MaxPrice: &hi},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.List(context.Background(), in)
			assertStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestProduct_Get_ByIDOrSlug(t *testing.T) {
	uc, products, _, _ := newProductUC()
	products.On("FindByIDOrSlug", mock.Anything, "el-datskaya-1-5").Return(model.Product{ID: productID, Slug: "el-datskaya-1-5"}, nil)
	products.On("FindByIDOrSlug", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)
	products.On("FindByIDOrSlug", mock.Anything, "boom").Return(model.Product{}, errors.New("db down"))

	p, err := uc.Get(context.Background(), "el-datskaya-1-5")
	require.NoError(t, err)
	assert.Equal(t, productID, p.ID)

	_, err = uc.Get(context.Background(), "missing")
	assertStatus(t, err, http.StatusNotFound)

	_, err = uc.Get(context.Background(), "boom")
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestProduct_Create_Success(t *testing.T) {
	uc, products, cats, audit := newProductUC()

	products.On("FindBySlug", mock.Anything, "el-datskaya-1-5").Return(model.Product{}, repo.ErrNotFound)
	cats.On("Exists", mock.Anything, childID).Return(true, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		// in_stockは省略時true
		return p.InStock && p.Price.Equal(decimal.RequireFromString("120.5")) && *p.Image == "https://images.example.com/el.jpg"
	})).Return(model.Product{ID: productID, Slug: "el-datskaya-1-5", InStock: true}, nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ResourceType == model.AuditResourceProduct && l.ResourceID == productID
	})).Return(nil)

	p, err := uc.AdminCreate(context.Background(), adminID, validProductInput())
	require.NoError(t, err)
	assert.Equal(t, productID, p.ID)
	audit.AssertExpectations(t)
}

func TestProduct_Create_UnknownCategory(t *testing.T) {
	uc, products, cats, _ := newProductUC()
	products.On("FindBySlug", mock.Anything, "el-datskaya-1-5").Return(model.Product{}, repo.ErrNotFound)
	cats.On("Exists", mock.Anything, childID).Return(false, nil)

	_, err := uc.AdminCreate(context.Background(), adminID, validProductInput())
	he := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "category not found", he.Message)
}

func TestProduct_Create_ConflictFromDB(t *testing.T) {
	uc, products, cats, _ := newProductUC()
	products.On("FindBySlug", mock.Anything, "el-datskaya-1-5").Return(model.Product{}, repo.ErrNotFound)
	cats.On("Exists", mock.Anything, childID).Return(true, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)

	_, err := uc.AdminCreate(context.Background(), adminID, validProductInput())
	assertStatus(t, err, http.StatusBadRequest)
}

func TestProduct_Update_OutOfStockAndSlugChange(t *testing.T) {
	uc, products, _, audit := newProductUC()
	off := false
	in := validProductInput()
	in.Slug = "el-datskaya-1-5-new"
	in.InStock = &off

	products.On("FindByID", mock.Anything, productID).Return(model.Product{ID: productID, Slug: "el-datskaya-1-5", CategoryID: childID, InStock: true}, nil)
	products.On("FindBySlug", mock.Anything, "el-datskaya-1-5-new").Return(model.Product{}, repo.ErrNotFound)
	products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == productID && !p.InStock
	})).Return(model.Product{ID: productID, Slug: "el-datskaya-1-5-new"}, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	p, err := uc.AdminUpdate(context.Background(), adminID, productID, in)
	require.NoError(t, err)
	assert.Equal(t, "el-datskaya-1-5-new", p.Slug)
	products.AssertExpectations(t)
}

func TestProduct_Update_DuplicateSlug(t *testing.T) {
	uc, products, _, _ := newProductUC()
	in := validProductInput()
	in.Slug = "taken"

	products.On("FindByID", mock.Anything, productID).Return(model.Product{ID: productID, Slug: "el", CategoryID: childID}, nil)
	products.On("FindBySlug", mock.Anything, "taken").Return(model.Product{ID: "other"}, nil)

	_, err := uc.AdminUpdate(context.Background(), adminID, productID, in)
	assertStatus(t, err, http.StatusBadRequest)
	products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProduct_Delete(t *testing.T) {
	uc, products, _, audit := newProductUC()

	products.On("FindByID", mock.Anything, productID).Return(model.Product{ID: productID}, nil)
	products.On("Delete", mock.Anything, productID).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDelete
	})).Return(nil)
	products.On("FindByID", mock.Anything, "gone").Return(model.Product{}, repo.ErrNotFound)

	require.NoError(t, uc.AdminDelete(context.Background(), adminID, productID))

	err := uc.AdminDelete(context.Background(), adminID, "gone")
	assertStatus(t, err, http.StatusNotFound)
}
