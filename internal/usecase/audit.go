package usecase

import (
	"context"
	"encoding/json"
	"time"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"
)

// 監査ログを作成
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func writeAudit(
	ctx context.Context,
	logs repo.AuditLogRepository,
	actorID string,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID string,
	before, after interface{},
) error {
	return logs.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    time.Now(),
	})
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

// 管理者用の一覧
func (u *AuditLogUsecase) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, dbErr(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
