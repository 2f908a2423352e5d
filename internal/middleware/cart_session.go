package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxCartSessionKey = "cart_session" // string

	CartCookieName = "cart_session"
	cartCookieTTL  = 365 * 24 * time.Hour
)

// cart_session cookieを読む。無い・壊れていれば新しく発行する。
func CartSession(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(CartCookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}

			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CartCookieName,
					Value:    id,
					Path:     "/",
					Expires:  time.Now().Add(cartCookieTTL),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxCartSessionKey, id)
			return next(c)
		}
	}
}
