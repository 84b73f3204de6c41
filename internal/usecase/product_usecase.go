package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	tx           repo.TransactionManager
	shopRepo     repo.ShopRepository
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	shopRepo repo.ShopRepository,
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	ShopID     *int64
	CategoryID *int64
	Q          string
	MinPrice   *int64
	MaxPrice   *int64
	MinStock   *int64
	MaxStock   *int64
	AddedFrom  *time.Time
	AddedTo    *time.Time
	Page       int
	Limit      int
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type CreateProductInput struct {
	ShopID         int64
	Name           string
	Description    string
	Price          int64
	ReferencePrice *int64
	Stock          int64
	CategoryID     *int64
}

type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *int64
	ReferencePrice *int64
	ClearReference bool
	CategoryID     *int64
	ClearCategory  bool
}

func (u *ProductUsecase) List(ctx context.Context, ownerID int64, in ListProductsInput) (ProductListOutput, error) {
	if ownerID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "query too long")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	if in.MinStock != nil && in.MaxStock != nil && *in.MinStock > *in.MaxStock {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_stock must be <= max_stock")
	}
	if in.AddedFrom != nil && in.AddedTo != nil && in.AddedFrom.After(*in.AddedTo) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "added_from must be <= added_to")
	}
	switch in.Sort {
	case "", "price_asc", "price_desc", "name", "newest":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		OwnerUserID: ownerID,
		ShopID:      in.ShopID,
		CategoryID:  in.CategoryID,
		Q:           strings.TrimSpace(in.Q),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		AddedFrom:   in.AddedFrom,
		AddedTo:     in.AddedTo,
		Page:        in.Page,
		Limit:       in.Limit,
		Sort:        in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, ownerID int64, productID int64) (model.Product, error) {
	if ownerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindOwned(ctx, productID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) Create(ctx context.Context, ownerID int64, in CreateProductInput) (model.Product, error) {
	if ownerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 1 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 1")
	}
	if in.ReferencePrice != nil && *in.ReferencePrice < 1 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "reference_price must be >= 1")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	//店の所有チェック
	if _, err := u.shopRepo.FindOwned(ctx, in.ShopID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "shop not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カテゴリは同じ店のものだけ許す
	if in.CategoryID != nil {
		c, err := u.categoryRepo.FindOwned(ctx, *in.CategoryID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
		}
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if c.ShopID != in.ShopID {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category belongs to a different shop")
		}
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:           name,
		Description:    in.Description,
		Price:          in.Price,
		ReferencePrice: in.ReferencePrice,
		Stock:          in.Stock,
		CategoryID:     in.CategoryID,
		ShopID:         in.ShopID,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product name already exists in shop")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 在庫はここでは触らない（SetStock / 台帳経由のみ）。
func (u *ProductUsecase) Update(ctx context.Context, ownerID int64, productID int64, in UpdateProductInput) (model.Product, error) {
	if ownerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindOwned(ctx, productID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 255 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 1 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 1")
		}
		p.Price = *in.Price
	}
	if in.ClearReference {
		p.ReferencePrice = nil
	} else if in.ReferencePrice != nil {
		if *in.ReferencePrice < 1 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "reference_price must be >= 1")
		}
		p.ReferencePrice = in.ReferencePrice
	}
	if in.ClearCategory {
		p.CategoryID = nil
	} else if in.CategoryID != nil {
		c, err := u.categoryRepo.FindOwned(ctx, *in.CategoryID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
		}
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if c.ShopID != p.ShopID {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category belongs to a different shop")
		}
		p.CategoryID = in.CategoryID
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return model.Product{}, NewHTTPError(http.StatusConflict, "product name already exists in shop")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 明細から参照されている商品は消せない（売上履歴を守る）。
func (u *ProductUsecase) Delete(ctx context.Context, ownerID int64, productID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindOwned(ctx, productID, ownerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		n, err := r.Products().CountSaleItemRefs(ctx, productID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n > 0 {
			return NewHTTPError(http.StatusConflict, "product is referenced by sale items")
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			//カウント後に割り込んだ明細はFK違反としてここに出る
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "product is referenced by sale items")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 棚卸しなどの在庫直接設定。差分を履歴に残す。
func (u *ProductUsecase) SetStock(ctx context.Context, ownerID int64, productID int64, newStock int64) (model.Product, error) {
	if ownerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if newStock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindOwned(ctx, productID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if newStock != p.Stock {
			if err := r.Movements().Create(ctx, model.StockMovement{
				ProductID: productID,
				Delta:     newStock - p.Stock,
				Reason:    model.MovementStockSet,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		p.Stock = newStock
		out = p
		return nil
	})

	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}
