package model

import "time"

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_products_shop_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// 価格は最小通貨単位のint64で持つ。
	Price int64 `gorm:"not null" json:"price"`

	// 利益計算に使う参考価格（任意）。未設定の商品は利益0として扱う。
	ReferencePrice *int64 `json:"reference_price,omitempty"`

	// 在庫。更新はInventoryRepository経由に限る（stock >= 0 を常に保つ）。
	Stock int64 `gorm:"not null;default:0" json:"stock"`

	CategoryID *int64    `gorm:"index" json:"category_id,omitempty"`
	ShopID     int64     `gorm:"not null;index;uniqueIndex:uq_products_shop_name" json:"shop_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
