package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// 疎通確認の対象（postgres, カートKVなど）
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.healthz)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// 1つでも落ちていれば503
func (h *HealthHandler) healthz(c echo.Context) error {
	res := healthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}

	for name, p := range h.checks {
		if err := p.Ping(c.Request().Context()); err != nil {
			log.WithError(err).WithField("check", name).Warn("health check failed")
			res.Checks[name] = "unavailable"
			res.Status = "unavailable"
			continue
		}
		res.Checks[name] = "ok"
	}

	if res.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}
