package model

import "time"

// 在庫がどの操作で動いたか。
type MovementReason string

const (
	MovementSaleItemCreate MovementReason = "SALE_ITEM_CREATE"
	MovementSaleItemUpdate MovementReason = "SALE_ITEM_UPDATE"
	MovementSaleItemDelete MovementReason = "SALE_ITEM_DELETE"
	MovementSaleDelete     MovementReason = "SALE_DELETE"
	MovementStockSet       MovementReason = "STOCK_SET"
)

// 在庫変動の履歴。在庫を動かすトランザクションと同じ単位で書く。
type StockMovement struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64          `gorm:"not null;index" json:"product_id"`
	SaleItemID *int64         `gorm:"index" json:"sale_item_id,omitempty"`
	Delta      int64          `gorm:"not null" json:"delta"`
	Reason     MovementReason `gorm:"type:varchar(50);not null" json:"reason"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}
