package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treeshop/internal/cart"
	"treeshop/internal/config"
	"treeshop/internal/infra/db"
	"treeshop/internal/infra/kv"
	infraRepo "treeshop/internal/infra/repository"
	"treeshop/internal/logger"
	"treeshop/internal/seed"
	"treeshop/internal/server"
	"treeshop/internal/usecase/auth"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "treeshop",
		Usage: "ёлочный магазин: каталог, корзина, админка",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "HTTP APIを起動",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "起動前にテーブルを作成/更新"},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "テーブルを作成/更新",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "デモ用カタログと管理者を投入",
				Action: seedCatalog,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("treeshop stopped")
	}
}

// 設定・ロガー・DBを用意する
func setup() (config.Config, *log.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	l := logger.New(cfg.LogLevel, os.Stdout)
	// handlerなどが使う標準ロガーもそろえる
	log.SetOutput(l.Out)
	log.SetFormatter(l.Formatter)
	log.SetLevel(l.Level)

	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, l, gormDB, nil
}

func serve(c *cli.Context) error {
	cfg, l, gormDB, err := setup()
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if c.Bool("migrate") {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
	}

	store, err := kv.New(kv.Options{
		Kind:      cfg.CartStore,
		RedisAddr: cfg.RedisAddr,
		TTL:       cfg.CartTTL,
		DB:        gormDB,
	})
	if err != nil {
		return err
	}
	if cl, ok := store.(io.Closer); ok {
		defer cl.Close()
	}

	carts := cart.NewRegistry(store, l)
	srv := server.New(cfg, server.Deps{
		DB:     gormDB,
		CartKV: store,
		Carts:  carts,
		Logger: l,
	})

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		return carts.RunSweeper(gctx, cfg.CartSweepInterval, cfg.CartIdleTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("shutdown requested")
		return srv.Shutdown(context.Background(), shutdownTimeout)
	})

	l.WithFields(log.Fields{"port": cfg.Port, "cart_store": cfg.CartStore, "env": cfg.GoEnv}).Info("treeshop started")
	if err := g.Wait(); err != nil {
		return err
	}
	l.Info("bye")
	return nil
}

func migrate(c *cli.Context) error {
	_, l, gormDB, err := setup()
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	l.Info("migrated")
	return nil
}

func seedCatalog(c *cli.Context) error {
	cfg, l, gormDB, err := setup()
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	s := seed.New(
		infraRepo.NewCategoryGormRepository(gormDB),
		infraRepo.NewProductGormRepository(gormDB),
		auth.NewEnsureAdminUsecase(infraRepo.NewUserGormRepository(gormDB), auth.NewBcryptPasswordHasher(0)),
		l,
	)
	_, err = s.Run(c.Context, auth.EnsureAdminInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     "Администратор",
	})
	return err
}
