package repository

import (
	"context"
	"time"
)

// 売上×明細×商品の結合行。明細のない売上はQuantity等がNULL（left join）。
// 1回のクエリで読むので、集計中に価格が動いても同じスナップショットを見る。
type SaleLineRow struct {
	SaleID         int64
	ReceiptNumber  string
	SaleDate       time.Time
	Quantity       *int64
	Price          *int64
	ReferencePrice *int64
}

type SalesRollupFilter struct {
	OwnerUserID int64
	ShopID      *int64
	From        *time.Time
	To          *time.Time
}

// 商品別集計用の明細行
type ProductSoldRow struct {
	Quantity int64
	Price    int64
}

// 読み取り専用。在庫・明細を一切変更しない。
type ReportRepository interface {
	// sale_date降順・sale id降順で返す（同じ売上の行は連続する）。
	ListSaleLines(ctx context.Context, f SalesRollupFilter) ([]SaleLineRow, error)
	ListProductLines(ctx context.Context, productID int64, ownerID int64, from *time.Time, to *time.Time) ([]ProductSoldRow, error)
}
