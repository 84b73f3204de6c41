package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type SaleListFilter struct {
	OwnerUserID int64
	ShopID      *int64
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

type SaleRepository interface {
	// レシート番号の重複はErrConflictで返す。
	Create(ctx context.Context, s model.Sale) (model.Sale, error)
	FindOwned(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error)
	// FOR UPDATEで売上ヘッダをロックして取得する。
	// 明細の追加と売上削除はこのロックで直列化する。
	FindOwnedForUpdate(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error)
	List(ctx context.Context, f SaleListFilter) ([]model.Sale, int64, error)
	Delete(ctx context.Context, saleID int64) error
	CountByShopID(ctx context.Context, shopID int64) (int64, error)
}

// 明細＋商品情報の読み取り行（一覧表示用）
type SaleItemWithProduct struct {
	model.SaleItem
	ReceiptNumber string `json:"receipt_number"`
	ProductName   string `json:"product_name"`
	UnitPrice     int64  `json:"unit_price"`
}

type SaleItemRepository interface {
	// (sale, product)の重複はErrConflictで返す。
	Create(ctx context.Context, item model.SaleItem) (model.SaleItem, error)

	// FOR UPDATEで行ロックして取得する。数量の差分計算は必ずこの読みに基づく。
	FindOwnedForUpdate(ctx context.Context, itemID int64, ownerID int64) (model.SaleItem, error)
	ListBySaleIDForUpdate(ctx context.Context, saleID int64) ([]model.SaleItem, error)

	ListBySaleID(ctx context.Context, saleID int64) ([]SaleItemWithProduct, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error
	Delete(ctx context.Context, itemID int64) error
	DeleteBySaleID(ctx context.Context, saleID int64) error
}

type StockMovementRepository interface {
	Create(ctx context.Context, m model.StockMovement) error
}
