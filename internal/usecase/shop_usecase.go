package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type ShopUsecase struct {
	tx       repo.TransactionManager
	shopRepo repo.ShopRepository
}

func NewShopUsecase(tx repo.TransactionManager, shopRepo repo.ShopRepository) *ShopUsecase {
	return &ShopUsecase{tx: tx, shopRepo: shopRepo}
}

type CreateShopInput struct {
	Name        string
	Description string
	Address     string
}

type UpdateShopInput struct {
	Name        *string
	Description *string
	Address     *string
}

func (u *ShopUsecase) Create(ctx context.Context, ownerID int64, in CreateShopInput) (model.Shop, error) {
	if ownerID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	s, err := u.shopRepo.Create(ctx, model.Shop{
		Name:        name,
		OwnerUserID: ownerID,
		Description: in.Description,
		Address:     in.Address,
	})
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ShopUsecase) List(ctx context.Context, ownerID int64) ([]model.Shop, error) {
	if ownerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	shops, err := u.shopRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return shops, nil
}

func (u *ShopUsecase) Get(ctx context.Context, ownerID int64, shopID int64) (model.Shop, error) {
	if ownerID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s, err := u.shopRepo.FindOwned(ctx, shopID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ShopUsecase) Update(ctx context.Context, ownerID int64, shopID int64, in UpdateShopInput) (model.Shop, error) {
	if ownerID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.shopRepo.FindOwned(ctx, shopID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 255 {
			return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid name")
		}
		s.Name = name
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Address != nil {
		s.Address = *in.Address
	}

	if err := u.shopRepo.Update(ctx, s); err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// 売上や商品が残っている店は消せない。
func (u *ShopUsecase) Delete(ctx context.Context, ownerID int64, shopID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Shops().FindOwned(ctx, shopID, ownerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "shop not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		sales, err := r.Sales().CountByShopID(ctx, shopID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if sales > 0 {
			return NewHTTPError(http.StatusConflict, "shop has sales")
		}

		products, err := r.Products().CountByShopID(ctx, shopID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if products > 0 {
			return NewHTTPError(http.StatusConflict, "shop has products")
		}

		if err := r.Shops().Delete(ctx, shopID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
