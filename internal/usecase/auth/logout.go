package auth

import (
	"context"
	"errors"

	"treeshop/internal/repository"
)

// token_versionを上げて発行済みトークンを全部無効にする
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	err := u.userRepo.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnauthorized
	}
	return err
}
