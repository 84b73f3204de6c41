package usecase_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type fixedIssuer struct{}

func (i *fixedIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	return "token-for-test", now.Add(15 * time.Minute), nil
}

func TestAuth_Register_HashesPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		if u.Email != "owner@example.com" {
			return false
		}
		//平文は保存されない
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secretpass")) == nil
	})).Return(model.User{ID: 1, Email: "owner@example.com"}, nil)

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "Owner@Example.com", Password: "secretpass",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	users.AssertExpectations(t)
}

func TestAuth_Register_ShortPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "owner@example.com", Password: "short",
	})
	assertErrContains(t, err, "at least 8 characters")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, repo.ErrConflict)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "owner@example.com", Password: "secretpass",
	})
	assertErrContains(t, err, "already registered")
}

func TestAuth_Login_OK(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secretpass"), bcrypt.MinCost)
	assert.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.User{ID: 1, Email: "owner@example.com", PasswordHash: string(hash)}, nil)

	out, err := uc.Login(context.Background(), "owner@example.com", "secretpass")
	assert.NoError(t, err)
	assert.Equal(t, "token-for-test", out.AccessToken)
	assert.Equal(t, int64(1), out.User.ID)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secretpass"), bcrypt.MinCost)
	assert.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.User{ID: 1, Email: "owner@example.com", PasswordHash: string(hash)}, nil)

	_, err = uc.Login(context.Background(), "owner@example.com", "wrongpass")
	assertErrContains(t, err, "invalid email or password")
}

func TestAuth_Login_UnknownEmailSameMessage(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, &fixedIssuer{})

	users.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	assertErrContains(t, err, "invalid email or password")
}
