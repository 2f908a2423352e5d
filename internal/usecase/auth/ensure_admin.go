package auth

import (
	"context"
	"errors"
	"net/mail"

	"treeshop/internal/domain/model"
	"treeshop/internal/repository"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
)

// 管理者アカウントの入力
type EnsureAdminInput struct {
	Email    string
	Password string
	Name     string
}

// 管理者がいなければ作る。いればroleをadminにそろえるだけ（パスワードは変えない）。
type EnsureAdminUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewEnsureAdminUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *EnsureAdminUsecase {
	return &EnsureAdminUsecase{userRepo: userRepo, hasher: hasher}
}

func (u *EnsureAdminUsecase) Execute(ctx context.Context, in EnsureAdminInput) (model.User, bool, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, false, ErrInvalidEmailFormat
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			existing.Role = model.RoleAdmin
			if err := u.userRepo.Update(ctx, existing); err != nil {
				return model.User{}, false, err
			}
		}
		return *existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, false, err
	}

	// 新規作成のときだけパスワードが要る
	if len(in.Password) < 6 {
		return model.User{}, false, ErrPasswordTooShort
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, false, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         in.Name,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return model.User{}, false, err
	}
	return *user, true, nil
}
