package auth

import (
	"context"
	"errors"

	"treeshop/internal/domain/model"
	"treeshop/internal/repository"
)

type MeUsecase struct {
	userRepo repository.UserRepository
}

func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

func (u *MeUsecase) Execute(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, ErrUnauthorized
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUnauthorized
	}
	if err != nil {
		return model.User{}, err
	}
	if !user.IsActive {
		return model.User{}, ErrUserInactive
	}
	return *user, nil
}
