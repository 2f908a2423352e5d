package kv

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"treeshop/internal/cart"
)

const (
	KindMemory   = "memory"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// カート永続化に使うKV + 疎通確認
type Store interface {
	cart.KeyValueStore
	Ping(ctx context.Context) error
}

type Options struct {
	Kind      string
	RedisAddr string
	TTL       time.Duration
	DB        *gorm.DB
}

// CART_STOREの値からバックエンドを選ぶ
func New(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindRedis:
		return NewRedisStore(opts.RedisAddr, opts.TTL)
	case KindPostgres:
		if opts.DB == nil {
			return nil, errors.New("postgres cart store needs a database connection")
		}
		return NewGormStore(opts.DB), nil
	default:
		return nil, errors.Errorf("unknown cart store %q", opts.Kind)
	}
}
