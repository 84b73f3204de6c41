package usecase

import (
	"context"
	"errors"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// LedgerUsecaseは明細の作成/更新/削除を「在庫変更＋明細変更」の
// 1トランザクションとして実行する。明細を動かす道はここしかない。
type LedgerUsecase struct {
	tx repo.TransactionManager
}

func NewLedgerUsecase(tx repo.TransactionManager) *LedgerUsecase {
	return &LedgerUsecase{tx: tx}
}

type CreateSaleItemInput struct {
	SaleID    int64
	ProductID int64
	Quantity  int64
}

type SaleItemOutput struct {
	ID            int64  `json:"id"`
	SaleID        int64  `json:"sale_id"`
	ReceiptNumber string `json:"receipt_number"`
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int64  `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	LineTotal     int64  `json:"line_total"`
}

func (u *LedgerUsecase) CreateSaleItem(ctx context.Context, ownerID int64, in CreateSaleItemInput) (SaleItemOutput, error) {
	if ownerID <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.SaleID <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sale_id")
	}
	if in.ProductID <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	//数量0以下はストレージに触る前に弾く
	if in.Quantity <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
	}

	var out SaleItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//売上ヘッダをロックする。同じ売上のカスケード削除とは
		//ここで直列化され、削除後の追加はnot foundになる。
		sale, err := r.Sales().FindOwnedForUpdate(ctx, in.SaleID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "sale not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().FindOwned(ctx, in.ProductID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.ShopID != sale.ShopID {
			return NewHTTPError(http.StatusBadRequest, "product belongs to a different shop")
		}

		//在庫減算（足りないなら false）。失敗ならtxごと巻き戻る。
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "insufficient inventory")
		}

		item, err := r.SaleItems().Create(ctx, model.SaleItem{
			SaleID:    in.SaleID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
		if errors.Is(err, repo.ErrConflict) {
			//(sale, product)は1行まで。減算済みの在庫もrollbackで戻る。
			return NewHTTPError(http.StatusConflict, "sale item for product already exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Movements().Create(ctx, model.StockMovement{
			ProductID:  in.ProductID,
			SaleItemID: &item.ID,
			Delta:      -in.Quantity,
			Reason:     model.MovementSaleItemCreate,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toSaleItemOutput(item, sale.ReceiptNumber, p)
		return nil
	})

	if err != nil {
		return SaleItemOutput{}, err
	}
	return out, nil
}

func (u *LedgerUsecase) UpdateSaleItemQuantity(ctx context.Context, ownerID int64, itemID int64, newQuantity int64) (SaleItemOutput, error) {
	if ownerID <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if newQuantity <= 0 {
		return SaleItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
	}

	var out SaleItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//行ロック込みで現在数量を読む。差分はこの読みからだけ計算する。
		item, err := r.SaleItems().FindOwnedForUpdate(ctx, itemID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "sale item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		delta := newQuantity - item.Quantity
		if delta > 0 {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, item.ProductID, delta)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient inventory")
			}
		} else if delta < 0 {
			if err := r.Inventory().IncreaseStock(ctx, item.ProductID, -delta); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.SaleItems().UpdateQuantity(ctx, itemID, newQuantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if delta != 0 {
			if err := r.Movements().Create(ctx, model.StockMovement{
				ProductID:  item.ProductID,
				SaleItemID: &item.ID,
				Delta:      -delta,
				Reason:     model.MovementSaleItemUpdate,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		sale, err := r.Sales().FindOwned(ctx, item.SaleID, ownerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		p, err := r.Products().FindOwned(ctx, item.ProductID, ownerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		item.Quantity = newQuantity
		out = toSaleItemOutput(item, sale.ReceiptNumber, p)
		return nil
	})

	if err != nil {
		return SaleItemOutput{}, err
	}
	return out, nil
}

// 明細削除は数量ぶんの在庫を戻してから行を消す。
// 行ロック後に消すので、二重削除の2回目はnot foundになり在庫は二重に戻らない。
func (u *LedgerUsecase) DeleteSaleItem(ctx context.Context, ownerID int64, itemID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.SaleItems().FindOwnedForUpdate(ctx, itemID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "sale item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.SaleItems().Delete(ctx, itemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Movements().Create(ctx, model.StockMovement{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			Reason:    model.MovementSaleItemDelete,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 売上削除は全明細の在庫戻し→明細削除→ヘッダ削除を1トランザクションで行う。
// 途中状態（一部だけ戻った在庫）は外から観測できない。
func (u *LedgerUsecase) DeleteSale(ctx context.Context, ownerID int64, saleID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if saleID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ヘッダをロックしてから明細を読む。ロック後に追加される明細は
		//存在しないので、在庫戻しの対象から漏れる行はない。
		sale, err := r.Sales().FindOwnedForUpdate(ctx, saleID, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "sale not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.SaleItems().ListBySaleIDForUpdate(ctx, sale.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, item := range items {
			if err := r.Inventory().IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Movements().Create(ctx, model.StockMovement{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				Reason:    model.MovementSaleDelete,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.SaleItems().DeleteBySaleID(ctx, sale.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Sales().Delete(ctx, sale.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 単価・行合計は商品の現在価格から導出する（保存しない）。
func toSaleItemOutput(item model.SaleItem, receiptNumber string, p model.Product) SaleItemOutput {
	return SaleItemOutput{
		ID:            item.ID,
		SaleID:        item.SaleID,
		ReceiptNumber: receiptNumber,
		ProductID:     item.ProductID,
		ProductName:   p.Name,
		Quantity:      item.Quantity,
		UnitPrice:     p.Price,
		LineTotal:     item.Quantity * p.Price,
	}
}
