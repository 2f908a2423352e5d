package auth

import (
	"context"
	"testing"

	"treeshop/internal/domain/model"
	"treeshop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin_CreatesWhenMissing(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "admin@elki.by").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "admin@elki.by" &&
			u.Role == model.RoleAdmin &&
			u.IsActive &&
			NewBcryptPasswordVerifier().Verify("admin123", u.PasswordHash)
	})).Return(nil)

	uc := NewEnsureAdminUsecase(userRepo, NewBcryptPasswordHasher(4))
	u, created, err := uc.Execute(context.Background(), EnsureAdminInput{Email: "Admin@elki.by", Password: "admin123", Name: "Администратор"})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, u.Role)
	userRepo.AssertExpectations(t)
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	userRepo := new(MockUserRepository)
	existing := &model.User{ID: "u1", Email: "admin@elki.by", Role: model.RoleUser, IsActive: true}
	userRepo.On("FindByEmail", mock.Anything, "admin@elki.by").Return(existing, nil)
	userRepo.On("Update", mock.Anything, existing).Return(nil)

	uc := NewEnsureAdminUsecase(userRepo, NewBcryptPasswordHasher(4))
	u, created, err := uc.Execute(context.Background(), EnsureAdminInput{Email: "admin@elki.by"})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, model.RoleAdmin, u.Role)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_RejectsBadInput(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := NewEnsureAdminUsecase(userRepo, NewBcryptPasswordHasher(4))

	_, _, err := uc.Execute(context.Background(), EnsureAdminInput{Email: "not-an-email", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	userRepo.On("FindByEmail", mock.Anything, "new@elki.by").Return(nil, repository.ErrNotFound)
	_, _, err = uc.Execute(context.Background(), EnsureAdminInput{Email: "new@elki.by", Password: "123"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
