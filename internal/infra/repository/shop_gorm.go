package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

// 自分のShopだけを返す。他人のShopは存在しない扱い。
func (r *ShopGormRepository) FindOwned(ctx context.Context, shopID int64, ownerID int64) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", shopID, ownerID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

func (r *ShopGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("name asc").Order("id asc").
		Find(&shops).Error
	if err != nil {
		return []model.Shop{}, err
	}
	return shops, nil
}

func (r *ShopGormRepository) Update(ctx context.Context, s model.Shop) error {
	res := r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":        s.Name,
		"description": s.Description,
		"address":     s.Address,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ShopGormRepository) Delete(ctx context.Context, shopID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Shop{}, shopID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
