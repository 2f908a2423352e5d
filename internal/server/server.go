package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"treeshop/internal/cart"
	"treeshop/internal/config"
	"treeshop/internal/handler"
	"treeshop/internal/infra/db"
	"treeshop/internal/infra/kv"
	infraRepo "treeshop/internal/infra/repository"
	"treeshop/internal/middleware"
	"treeshop/internal/usecase"
	"treeshop/internal/usecase/auth"
	"treeshop/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 外から注入するもの（cmd/apiで作る）
type Deps struct {
	DB     *gorm.DB
	CartKV kv.Store
	Carts  *cart.Registry
	Logger log.FieldLogger
}

type Server struct {
	e    *echo.Echo
	addr string
	log  log.FieldLogger

	// 全リクエストのctxの親。Shutdownで切ってSSEを終わらせる
	cancelRequests context.CancelFunc
}

// repository → usecase → handler を組み立ててルートを登録する
func New(cfg config.Config, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = log.StandardLogger()
	}

	// Repository
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	categoryRepo := infraRepo.NewCategoryGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	tx := infraRepo.NewTxManagerGorm(d.DB)

	// Usecase
	v := validator.NewCatalogValidator()
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, auditRepo, tx, v)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo, v)
	cartUC := usecase.NewCartUsecase(d.Carts, productRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL), auth.SystemClock{})
	logoutUC := auth.NewLogoutUsecase(userRepo)
	meUC := auth.NewMeUsecase(userRepo)

	h := Handlers{
		Product:       handler.NewProductHandler(productUC),
		Category:      handler.NewCategoryHandler(categoryUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		AdminCategory: handler.NewAdminCategoryHandler(categoryUC),
		AuditLog:      handler.NewAuditLogHandler(auditUC),
		Auth:          handler.NewAuthHandler(loginUC, logoutUC, meUC, cfg.CookieSecure),
		Cart:          handler.NewCartHandler(cartUC),
		Sitemap:       handler.NewSitemapHandler(categoryUC, productUC, cfg.SiteURL),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, d.DB) }),
			"cart_kv":  d.CartKV,
		}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	baseCtx, cancelRequests := context.WithCancel(context.Background())
	e.Server.BaseContext = func(net.Listener) context.Context { return baseCtx }

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, h, Guards{
		Auth:        middleware.AuthJWT(cfg.JWTSecret),
		Version:     middleware.TokenVersionGuard(userRepo),
		Admin:       middleware.AdminRoleGuard(),
		CartSession: middleware.CartSession(cfg.CookieSecure),
	})

	return &Server{e: e, addr: ":" + cfg.Port, log: d.Logger, cancelRequests: cancelRequests}
}

func (s *Server) Handler() http.Handler {
	return s.e
}

// Shutdownされるまで戻らない
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("http server starting")
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// 先にSSEなどの長い接続を切ってから、残りをtimeoutまで待つ
func (s *Server) Shutdown(ctx context.Context, timeout time.Duration) error {
	s.cancelRequests()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.e.Shutdown(ctx)
}
