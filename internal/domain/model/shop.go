package model

import "time"

// Shopはテナント境界。商品・カテゴリ・売上はすべてShopに属する。
type Shop struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerUserID int64     `gorm:"not null;index" json:"owner_user_id"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"type:varchar(1024)" json:"address"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
