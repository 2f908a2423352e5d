package handler

import (
	"errors"
	"net/http"
	"time"

	"treeshop/internal/middleware"
	"treeshop/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	loginUC      *auth.LoginUsecase  // ログインusecase
	logoutUC     *auth.LogoutUsecase // ログアウトusecase
	meUC         *auth.MeUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	meUC *auth.MeUsecase,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		loginUC:      loginUC,
		logoutUC:     logoutUC,
		meUC:         meUC,
		cookieSecure: cookieSecure,
	}
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginは公開、logout/meはルート単位で認証middlewareを付ける
func (h *AuthHandler) RegisterRoutes(g *echo.Group, authed ...echo.MiddlewareFunc) {
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout, authed...)
	g.GET("/me", h.Me, authed...)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		case errors.Is(err, auth.ErrUserInactive):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		default:
			log.WithError(err).Error("login failed")
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	// 管理画面（ブラウザ）用にcookieにも入れる
	h.setSessionCookie(c, out.Token.AccessToken, time.Now().Add(time.Duration(out.Token.ExpiresIn)*time.Second))

	//JSONレスポンス（user + token）
	return c.JSON(http.StatusOK, out)
}

// POST /api/auth/logout token_versionを上げて全トークンを失効
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
		log.WithError(err).Error("logout failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	// cookie削除
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logout success"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	u, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		case errors.Is(err, auth.ErrUserInactive):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}
	return c.JSON(http.StatusOK, u)
}

// JWTをCookieにセット。
func (h *AuthHandler) setSessionCookie(c echo.Context, value string, exp time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	c.SetCookie(cookie)
}
