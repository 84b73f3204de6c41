package repository

import (
	"context"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

// 在庫変動の履歴作成
type StockMovementGormRepository struct {
	db *gorm.DB
}

func NewStockMovementGormRepository(db *gorm.DB) *StockMovementGormRepository {
	return &StockMovementGormRepository{db: db}
}

func (r *StockMovementGormRepository) Create(ctx context.Context, m model.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	return nil
}
