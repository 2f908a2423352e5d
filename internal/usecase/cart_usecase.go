package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"treeshop/internal/cart"
	repo "treeshop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 状態はセッションごとのcart.Storeが持ち、ここは商品の確認と変換だけ。
type CartUsecase struct {
	carts       *cart.Registry
	productRepo repo.ProductRepository
}

func NewCartUsecase(carts *cart.Registry, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		carts:       carts,
		productRepo: productRepo,
	}
}

type CartItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

// 状態からレスポンスを作る（合計はここで計算）
func NewCartResponse(s cart.State) CartResponse {
	items := make([]CartItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, CartItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Slug:     it.Slug,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal(),
		})
	}
	return CartResponse{
		Items:      items,
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice(),
	}
}

func (u *CartUsecase) store(ctx context.Context, sessionID string) (*cart.Store, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	return u.carts.Get(ctx, sessionID), nil
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return NewCartResponse(st.Snapshot()), nil
}

// カタログから商品を引いてスナップショットを作り、カートに入れる
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	if strings.TrimSpace(productID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, dbErr(err)
	}
	if !p.InStock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product is out of stock")
	}

	ref := cart.ProductRef{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: p.Price,
	}
	if p.Image != nil {
		ref.Image = *p.Image
	} else if len(p.Images) > 0 {
		ref.Image = p.Images[0]
	}

	st.AddToCart(ctx, ref)
	return NewCartResponse(st.Snapshot()), nil
}

// quantity<=0なら削除。上限超えは400。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, sessionID string, productID string, quantity int) (CartResponse, error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	if quantity > cart.MaxQuantity {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "quantity too large")
	}
	st.UpdateQuantity(ctx, productID, quantity)
	return NewCartResponse(st.Snapshot()), nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	st.RemoveFromCart(ctx, productID)
	return NewCartResponse(st.Snapshot()), nil
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) (CartResponse, error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	st.ClearCart(ctx)
	return NewCartResponse(st.Snapshot()), nil
}

// 変更を購読する（SSE用）。戻り値は購読開始時点の状態と解除関数。
func (u *CartUsecase) Watch(ctx context.Context, sessionID string, l cart.Listener) (CartResponse, func(), error) {
	st, err := u.store(ctx, sessionID)
	if err != nil {
		return CartResponse{}, nil, err
	}
	unsubscribe := st.Subscribe(l)
	return NewCartResponse(st.Snapshot()), unsubscribe, nil
}
