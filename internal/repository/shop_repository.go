package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ShopRepository interface {
	Create(ctx context.Context, s model.Shop) (model.Shop, error)
	FindOwned(ctx context.Context, shopID int64, ownerID int64) (model.Shop, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Shop, error)
	Update(ctx context.Context, s model.Shop) error
	Delete(ctx context.Context, shopID int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c model.ProductCategory) (model.ProductCategory, error)
	FindOwned(ctx context.Context, categoryID int64, ownerID int64) (model.ProductCategory, error)
	ListByOwner(ctx context.Context, ownerID int64, shopID *int64) ([]model.ProductCategory, error)
	Update(ctx context.Context, c model.ProductCategory) error
	Delete(ctx context.Context, categoryID int64) error
}
