package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `envconfig:"PORT" default:"8080"` // サーバーポート

	DatabaseURL      string `envconfig:"DATABASE_URL"` // あればPOSTGRES_*より優先
	PostgresUser     string `envconfig:"POSTGRES_USER"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PostgresDB       string `envconfig:"POSTGRES_DB"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	JWTSecret string        `envconfig:"JWT_SECRET"` // JWT署名シークレット
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`

	GoEnv        string `envconfig:"GO_ENV" default:"dev"` // dev/prod
	FEURL        string `envconfig:"FE_URL"`               // フロントURL（CORS）
	CookieSecure bool   `envconfig:"COOKIE_SECURE"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// カートの保存先 memory / redis / postgres
	CartStore         string        `envconfig:"CART_STORE" default:"memory"`
	RedisAddr         string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	CartTTL           time.Duration `envconfig:"CART_TTL" default:"0"`
	CartSweepInterval time.Duration `envconfig:"CART_SWEEP_INTERVAL" default:"5m"`
	CartIdleTimeout   time.Duration `envconfig:"CART_IDLE_TIMEOUT" default:"30m"`

	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:3000"` // sitemapの絶対URL

	// seed用
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@elki.by"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Loadは.env（あれば）と環境変数から読む
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DatabaseURL == "" {
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.PostgresPassword == "" {
			return fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	switch c.CartStore {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("CART_STORE must be memory, redis or postgres: %q", c.CartStore)
	}
	if c.CartStore == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.CartSweepInterval <= 0 {
		return fmt.Errorf("CART_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// gorm(postgres)用のDSN
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}
