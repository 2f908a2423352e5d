package handler

import (
	"net/http"
	"strconv"
	"time"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"
	"treeshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/audit-logs
type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	var f repo.AuditLogFilter

	if v := c.QueryParam("actor_user_id"); v != "" {
		f.ActorUserID = &v
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		switch a {
		case model.AuditActionCreate, model.AuditActionUpdate, model.AuditActionDelete:
		default:
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid action"})
		}
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		switch rt {
		case model.AuditResourceCategory, model.AuditResourceProduct:
		default:
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_type"})
		}
		f.ResourceType = &rt
	}
	if v := c.QueryParam("resource_id"); v != "" {
		f.ResourceID = &v
	}

	//期間（RFC3339）
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.CreatedFrom = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.CreatedTo = &t
	}

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		f.Offset = n
	}

	logs, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
