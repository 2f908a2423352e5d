package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"treeshop/internal/cart"
	"treeshop/internal/middleware"
	"treeshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

const defaultHeartbeat = 15 * time.Second

// /cartのHTTP
type CartHandler struct {
	uc        *usecase.CartUsecase
	heartbeat time.Duration
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc, heartbeat: defaultHeartbeat}
}

type AddCartRequest struct {
	ProductID string `json:"product_id"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// /cart, /cart/items/:id を登録（gにはCartSessionが付いている前提）
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.getCart)
	g.DELETE("", h.clearCart)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.patchItem)
	g.DELETE("/items/:id", h.deleteItem)
	g.GET("/events", h.events)
}

func cartSessionID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxCartSessionKey).(string)
	return id
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), cartSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), cartSessionID(c), req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity required"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), cartSessionID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	out, err := h.uc.RemoveItem(c.Request().Context(), cartSessionID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clearCart(c echo.Context) error {
	out, err := h.uc.Clear(c.Request().Context(), cartSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /cart/events  SSEでカートの状態を流す。
// 最初に現在の状態、以降は変更ごとに1イベント。遅いクライアントには最新だけ送る。
func (h *CartHandler) events(c echo.Context) error {
	ctx := c.Request().Context()

	updates := make(chan usecase.CartResponse, 1)
	initial, unsubscribe, err := h.uc.Watch(ctx, cartSessionID(c), func(s cart.State) {
		resp := usecase.NewCartResponse(s)
		// Storeのロック内で呼ばれるので送り手は常に1つ
		select {
		case updates <- resp:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- resp
		}
	})
	if err != nil {
		return writeError(c, err)
	}
	defer unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeSSE(res, "cart", initial); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case resp := <-updates:
			if err := writeSSE(res, "cart", resp); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeSSE(res *echo.Response, event string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	res.Flush()
	return nil
}
