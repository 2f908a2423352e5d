package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"treeshop/internal/cart"
	"treeshop/internal/domain/model"
	"treeshop/internal/infra/kv"
	repo "treeshop/internal/repository"
	"treeshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartUC() (*usecase.CartUsecase, *MockProductRepository) {
	logger, _ := test.NewNullLogger()
	products := new(MockProductRepository)
	reg := cart.NewRegistry(kv.NewMemoryStore(), logger)
	return usecase.NewCartUsecase(reg, products), products
}

func tree(id, name string, price string, inStock bool) model.Product {
	img := "https://images.example.com/" + id + ".jpg"
	return model.Product{
		ID:      id,
		Name:    name,
		Slug:    id,
		Price:   decimal.RequireFromString(price),
		Image:   &img,
		InStock: inStock,
	}
}

func TestCart_AddMergesAndTotals(t *testing.T) {
	uc, products := newCartUC()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, "p1").Return(tree("p1", "Ель", "100", true), nil)
	products.On("FindByID", mock.Anything, "p2").Return(tree("p2", "Пихта", "200", true), nil)

	_, err := uc.AddItem(ctx, "s1", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "s1", "p2")
	require.NoError(t, err)
	res, err := uc.AddItem(ctx, "s1", "p1")
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "p1", res.Items[0].ID)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, "200", res.Items[0].Subtotal.String())
	assert.Equal(t, "https://images.example.com/p1.jpg", res.Items[0].Image)
	assert.Equal(t, 3, res.TotalItems)
	assert.Equal(t, "400", res.TotalPrice.String())
}

func TestCart_AddUnknownOrOutOfStock(t *testing.T) {
	uc, products := newCartUC()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, "sold").Return(tree("sold", "Ель", "100", false), nil)

	_, err := uc.AddItem(ctx, "s1", "missing")
	assertStatus(t, err, http.StatusNotFound)

	_, err = uc.AddItem(ctx, "s1", "sold")
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddItem(ctx, "s1", " ")
	assertStatus(t, err, http.StatusBadRequest)

	res, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalItems)
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	uc, products := newCartUC()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, "p1").Return(tree("p1", "Ель", "100", true), nil)
	products.On("FindByID", mock.Anything, "p2").Return(tree("p2", "Пихта", "200", true), nil)
	_, _ = uc.AddItem(ctx, "s1", "p1")
	_, _ = uc.AddItem(ctx, "s1", "p2")

	res, err := uc.UpdateQuantity(ctx, "s1", "p2", 3)
	require.NoError(t, err)
	assert.Equal(t, "700", res.TotalPrice.String())

	// 上限超えは拒否して状態は変えない
	_, err = uc.UpdateQuantity(ctx, "s1", "p2", cart.MaxQuantity+1)
	assertStatus(t, err, http.StatusBadRequest)
	res, err = uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalItems)

	// 0以下は削除
	res, err = uc.UpdateQuantity(ctx, "s1", "p2", 0)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = uc.RemoveItem(ctx, "s1", "unknown")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = uc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.True(t, res.TotalPrice.IsZero())
}

func TestCart_SessionsAreSeparate(t *testing.T) {
	uc, products := newCartUC()
	ctx := context.Background()
	products.On("FindByID", mock.Anything, "p1").Return(tree("p1", "Ель", "100", true), nil)

	_, _ = uc.AddItem(ctx, "s1", "p1")

	res, err := uc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = uc.GetCart(ctx, "")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCart_WatchReceivesMutations(t *testing.T) {
	uc, products := newCartUC()
	ctx := context.Background()
	products.On("FindByID", mock.Anything, "p1").Return(tree("p1", "Ель", "100", true), nil)

	var got []cart.State
	initial, unsubscribe, err := uc.Watch(ctx, "s1", func(s cart.State) { got = append(got, s) })
	require.NoError(t, err)
	assert.Empty(t, initial.Items)

	_, _ = uc.AddItem(ctx, "s1", "p1")
	_, _ = uc.UpdateQuantity(ctx, "s1", "p1", 5)
	unsubscribe()
	_, _ = uc.Clear(ctx, "s1")

	require.Len(t, got, 2)
	assert.Equal(t, 5, got[1].TotalItems())
}
