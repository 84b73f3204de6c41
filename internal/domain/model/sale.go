package model

import "time"

// Saleは売上ヘッダ。ReceiptNumberは作成時に一度だけ採番し、以後変更しない。
type Sale struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceiptNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"receipt_number"`
	ShopID        int64     `gorm:"not null;index" json:"shop_id"`
	SaleDate      time.Time `gorm:"not null;index;autoCreateTime" json:"sale_date"`
}
