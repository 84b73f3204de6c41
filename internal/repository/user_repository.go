package repository

import (
	"context"

	"shop/internal/domain/model"
)

type UserRepository interface {
	// email重複はErrConflictで返す。
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}
