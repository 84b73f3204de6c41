package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（カテゴリ名・商品名・レシート番号・(売上,商品)の重複）
var ErrConflict = errors.New("conflict")

// 一覧検索
type ProductListQuery struct {
	OwnerUserID int64
	ShopID      *int64
	CategoryID  *int64
	Q           string
	MinPrice    *int64
	MaxPrice    *int64
	MinStock    *int64
	MaxStock    *int64
	AddedFrom   *time.Time
	AddedTo     *time.Time
	Page        int
	Limit       int
	Sort        string
}

// 商品の永続化だけを約束。在庫数の変更はInventoryRepositoryに限る。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindOwned(ctx context.Context, productID int64, ownerID int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID int64) error

	CountByShopID(ctx context.Context, shopID int64) (int64, error)
	CountSaleItemRefs(ctx context.Context, productID int64) (int64, error)
	ClearCategory(ctx context.Context, categoryID int64) error
}

// 在庫の唯一の更新窓口。
type InventoryRepository interface {
	// 在庫が足りるときだけ減らす。足りなければfalse（書き込みなし）。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
	// 在庫戻し（明細の削除・数量減）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
	// 在庫の現在値を設定（棚卸しなど台帳を通らない直接編集）
	SetStock(ctx context.Context, productID int64, newStock int64) error
}
