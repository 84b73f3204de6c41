package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type CategoryUsecase struct {
	tx           repo.TransactionManager
	shopRepo     repo.ShopRepository
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(tx repo.TransactionManager, shopRepo repo.ShopRepository, categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{tx: tx, shopRepo: shopRepo, categoryRepo: categoryRepo}
}

type CreateCategoryInput struct {
	ShopID int64
	Name   string
}

func (u *CategoryUsecase) Create(ctx context.Context, ownerID int64, in CreateCategoryInput) (model.ProductCategory, error) {
	if ownerID <= 0 {
		return model.ProductCategory{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.ProductCategory{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	if _, err := u.shopRepo.FindOwned(ctx, in.ShopID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductCategory{}, NewHTTPError(http.StatusNotFound, "shop not found")
		}
		return model.ProductCategory{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c, err := u.categoryRepo.Create(ctx, model.ProductCategory{
		Name:   name,
		ShopID: in.ShopID,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.ProductCategory{}, NewHTTPError(http.StatusConflict, "category name already exists in shop")
	}
	if err != nil {
		return model.ProductCategory{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) List(ctx context.Context, ownerID int64, shopID *int64) ([]model.ProductCategory, error) {
	if ownerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	cs, err := u.categoryRepo.ListByOwner(ctx, ownerID, shopID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cs, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, ownerID int64, categoryID int64, name string) (model.ProductCategory, error) {
	if ownerID <= 0 {
		return model.ProductCategory{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return model.ProductCategory{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return model.ProductCategory{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	c, err := u.categoryRepo.FindOwned(ctx, categoryID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductCategory{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.ProductCategory{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.Name = name
	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return model.ProductCategory{}, NewHTTPError(http.StatusConflict, "category name already exists in shop")
		}
		return model.ProductCategory{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// カテゴリ削除は商品を消さない。参照だけ外す。
func (u *CategoryUsecase) Delete(ctx context.Context, ownerID int64, categoryID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindOwned(ctx, categoryID, ownerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "category not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Products().ClearCategory(ctx, categoryID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Categories().Delete(ctx, categoryID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
