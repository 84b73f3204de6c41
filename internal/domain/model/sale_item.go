package model

// SaleItemは(売上, 商品)ごとに1行まで。
// 単価・行合計は保存せず、読み取り時に商品の現在価格から導出する。
type SaleItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    int64 `gorm:"not null;index;uniqueIndex:uq_sale_items_sale_product" json:"sale_id"`
	ProductID int64 `gorm:"not null;index;uniqueIndex:uq_sale_items_sale_product" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	// FKはDB側でも張る（RESTRICT）。アプリの事前チェックを
	// すり抜けた並行削除はここで弾かれる。
	Sale    Sale    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Product Product `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
