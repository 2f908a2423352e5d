package server

import (
	"treeshop/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	AdminProduct  *handler.AdminProductHandler
	AdminCategory *handler.AdminCategoryHandler
	AuditLog      *handler.AuditLogHandler
	Auth          *handler.AuthHandler
	Cart          *handler.CartHandler
	Sitemap       *handler.SitemapHandler
	Health        *handler.HealthHandler
}

// ルートごとのmiddleware
type Guards struct {
	Auth        echo.MiddlewareFunc // JWT検証
	Version     echo.MiddlewareFunc // token_version確認
	Admin       echo.MiddlewareFunc // role=admin
	CartSession echo.MiddlewareFunc // cart_session cookie
}

func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	h.Health.RegisterRoutes(e)
	h.Sitemap.RegisterRoutes(e)

	api := e.Group("/api")

	// 公開カタログ
	h.Product.RegisterRoutes(api)
	h.Category.RegisterRoutes(api)

	// カート（ログイン不要、cookieのセッション単位）
	h.Cart.RegisterRoutes(api.Group("/cart", g.CartSession))

	// 認証（middlewareはルート単位）
	h.Auth.RegisterRoutes(api.Group("/auth"), g.Auth, g.Version)

	// 管理
	admin := api.Group("/admin", g.Auth, g.Version, g.Admin)
	h.AdminCategory.RegisterRoutes(admin)
	h.AdminProduct.RegisterRoutes(admin)
	h.AuditLog.RegisterRoutes(admin)
}
