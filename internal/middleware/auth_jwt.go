package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // string
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int

	// ログイン時にJWTを入れるHttpOnly cookie
	SessionCookieName = "session"
)

// 管理者トークンのclaims（sub / role / tv / iat / exp）
type sessionClaims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

// JWT検証ミドルウェア。Authorization: Bearer か session cookie から読む。
func AuthJWT(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := tokenFromRequest(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := parseSession(raw, key)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, claims.Subject)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

// 署名（HS256のみ）と期限を確かめ、必須のclaimがそろっているか見る
func parseSession(raw string, key []byte) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	switch {
	case claims.Subject == "":
		return nil, errors.New("sub is empty")
	case claims.Role == "":
		return nil, errors.New("role is empty")
	case claims.TokenVersion < 0:
		return nil, errors.New("tv is negative")
	}
	return claims, nil
}

// ヘッダ優先、無ければcookie
func tokenFromRequest(c echo.Context) (string, bool) {
	if authz := c.Request().Header.Get(echo.HeaderAuthorization); authz != "" {
		scheme, raw, found := strings.Cut(authz, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		raw = strings.TrimSpace(raw)
		return raw, raw != ""
	}

	ck, err := c.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
