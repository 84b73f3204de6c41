package model

// カテゴリ名はShop内で一意。
type ProductCategory struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_categories_shop_name" json:"name"`
	ShopID      int64  `gorm:"not null;index;uniqueIndex:uq_categories_shop_name" json:"shop_id"`
	Description string `gorm:"type:text" json:"description"`
}
