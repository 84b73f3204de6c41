package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// レシート番号の採番。実装はmainで注入する（uuid先頭8桁）。
type ReceiptNumberGenerator interface {
	NewReceiptNumber() string
}

// 採番の衝突でリトライする上限。超えたら503。
const maxReceiptAttempts = 5

type SaleUsecase struct {
	shopRepo     repo.ShopRepository
	saleRepo     repo.SaleRepository
	saleItemRepo repo.SaleItemRepository
	receipts     ReceiptNumberGenerator
}

func NewSaleUsecase(
	shopRepo repo.ShopRepository,
	saleRepo repo.SaleRepository,
	saleItemRepo repo.SaleItemRepository,
	receipts ReceiptNumberGenerator,
) *SaleUsecase {
	return &SaleUsecase{
		shopRepo:     shopRepo,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		receipts:     receipts,
	}
}

type ListSalesInput struct {
	ShopID *int64
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type SaleListOutput struct {
	Items []model.Sale `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type SaleDetailOutput struct {
	model.Sale
	Items      []SaleItemOutput `json:"items"`
	TotalSales int64            `json:"total_sales"`
}

// 売上は空で作り、明細は後から台帳経由で追加する。
func (u *SaleUsecase) Create(ctx context.Context, ownerID int64, shopID int64) (model.Sale, error) {
	if ownerID <= 0 {
		return model.Sale{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "invalid shop_id")
	}

	if _, err := u.shopRepo.FindOwned(ctx, shopID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Sale{}, NewHTTPError(http.StatusNotFound, "shop not found")
		}
		return model.Sale{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//衝突したら番号を引き直す。確率的にほぼ1回で決まる。
	for i := 0; i < maxReceiptAttempts; i++ {
		s, err := u.saleRepo.Create(ctx, model.Sale{
			ReceiptNumber: u.receipts.NewReceiptNumber(),
			ShopID:        shopID,
		})
		if errors.Is(err, repo.ErrConflict) {
			continue
		}
		if err != nil {
			return model.Sale{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return s, nil
	}
	return model.Sale{}, NewHTTPError(http.StatusServiceUnavailable, "could not allocate receipt number")
}

func (u *SaleUsecase) Get(ctx context.Context, ownerID int64, saleID int64) (SaleDetailOutput, error) {
	if ownerID <= 0 {
		return SaleDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if saleID <= 0 {
		return SaleDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.saleRepo.FindOwned(ctx, saleID, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return SaleDetailOutput{}, NewHTTPError(http.StatusNotFound, "sale not found")
	}
	if err != nil {
		return SaleDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.saleItemRepo.ListBySaleID(ctx, s.ID)
	if err != nil {
		return SaleDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := SaleDetailOutput{Sale: s, Items: make([]SaleItemOutput, 0, len(rows))}
	for _, row := range rows {
		item := SaleItemOutput{
			ID:            row.ID,
			SaleID:        row.SaleID,
			ReceiptNumber: row.ReceiptNumber,
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			LineTotal:     row.Quantity * row.UnitPrice,
		}
		out.Items = append(out.Items, item)
		out.TotalSales += item.LineTotal
	}
	return out, nil
}

// 売上1件の明細一覧。単価は商品の現在価格。
func (u *SaleUsecase) ListItems(ctx context.Context, ownerID int64, saleID int64) ([]SaleItemOutput, error) {
	if ownerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if saleID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid sale_id")
	}

	if _, err := u.saleRepo.FindOwned(ctx, saleID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "sale not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.saleItemRepo.ListBySaleID(ctx, saleID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]SaleItemOutput, 0, len(rows))
	for _, row := range rows {
		out = append(out, SaleItemOutput{
			ID:            row.ID,
			SaleID:        row.SaleID,
			ReceiptNumber: row.ReceiptNumber,
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			LineTotal:     row.Quantity * row.UnitPrice,
		})
	}
	return out, nil
}

func (u *SaleUsecase) List(ctx context.Context, ownerID int64, in ListSalesInput) (SaleListOutput, error) {
	if ownerID <= 0 {
		return SaleListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	items, total, err := u.saleRepo.List(ctx, repo.SaleListFilter{
		OwnerUserID: ownerID,
		ShopID:      in.ShopID,
		From:        in.From,
		To:          in.To,
		Page:        in.Page,
		Limit:       in.Limit,
	})
	if err != nil {
		return SaleListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SaleListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}
