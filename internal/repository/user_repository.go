package repository

import (
	"context"

	"treeshop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// 見つからなければErrNotFound
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新（最終ログインなど）
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１（発行済みトークンを無効化）
	IncrementTokenVersion(ctx context.Context, userID string) error
}
