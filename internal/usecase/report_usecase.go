package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	repo "shop/internal/repository"
)

// レポートは読み取り専用。集計は常に商品の現在価格で行う。
type ReportUsecase struct {
	productRepo repo.ProductRepository
	reportRepo  repo.ReportRepository
}

func NewReportUsecase(productRepo repo.ProductRepository, reportRepo repo.ReportRepository) *ReportUsecase {
	return &ReportUsecase{productRepo: productRepo, reportRepo: reportRepo}
}

type SalesRollupInput struct {
	ShopID    *int64
	From      *time.Time
	To        *time.Time
	MinAmount *int64
	MaxAmount *int64
}

type SaleRollup struct {
	SaleID        int64     `json:"sale_id"`
	ReceiptNumber string    `json:"receipt_number"`
	SaleDate      time.Time `json:"sale_date"`
	TotalSales    int64     `json:"total_sales"`
	TotalProfit   int64     `json:"total_profit"`
}

type ProductSoldOutput struct {
	ProductID         int64 `json:"product_id"`
	TotalQuantitySold int64 `json:"total_quantity_sold"`
	TotalSalesValue   int64 `json:"total_sales_value"`
}

func (u *ReportUsecase) SalesRollup(ctx context.Context, ownerID int64, in SalesRollupInput) ([]SaleRollup, error) {
	if ownerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}
	if in.MinAmount != nil && in.MaxAmount != nil && *in.MinAmount > *in.MaxAmount {
		return nil, NewHTTPError(http.StatusBadRequest, "min_amount must be <= max_amount")
	}

	rows, err := u.reportRepo.ListSaleLines(ctx, repo.SalesRollupFilter{
		OwnerUserID: ownerID,
		ShopID:      in.ShopID,
		From:        in.From,
		To:          in.To,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//行は売上ごとに連続して並ぶので、sale_idの切り替わりで区切る。
	out := make([]SaleRollup, 0)
	var cur *SaleRollup
	flush := func() {
		if cur == nil {
			return
		}
		if in.MinAmount != nil && cur.TotalSales < *in.MinAmount {
			cur = nil
			return
		}
		if in.MaxAmount != nil && cur.TotalSales > *in.MaxAmount {
			cur = nil
			return
		}
		out = append(out, *cur)
		cur = nil
	}

	for _, row := range rows {
		if cur == nil || cur.SaleID != row.SaleID {
			flush()
			cur = &SaleRollup{
				SaleID:        row.SaleID,
				ReceiptNumber: row.ReceiptNumber,
				SaleDate:      row.SaleDate,
			}
		}
		//明細のない売上（left joinのNULL行）は合計0のまま。
		if row.Quantity == nil || row.Price == nil {
			continue
		}
		cur.TotalSales += *row.Quantity * *row.Price
		//参考価格のない商品は利益に数えない。
		if row.ReferencePrice != nil {
			cur.TotalProfit += *row.Quantity * (*row.Price - *row.ReferencePrice)
		}
	}
	flush()

	return out, nil
}

// 商品1つの販売集計。売れていない場合は空で返す。
func (u *ReportUsecase) ProductSold(ctx context.Context, ownerID int64, productID int64, from *time.Time, to *time.Time) ([]ProductSoldOutput, error) {
	if ownerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	if _, err := u.productRepo.FindOwned(ctx, productID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.reportRepo.ListProductLines(ctx, productID, ownerID, from, to)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(rows) == 0 {
		return []ProductSoldOutput{}, nil
	}

	agg := ProductSoldOutput{ProductID: productID}
	for _, row := range rows {
		agg.TotalQuantitySold += row.Quantity
		agg.TotalSalesValue += row.Quantity * row.Price
	}
	return []ProductSoldOutput{agg}, nil
}
