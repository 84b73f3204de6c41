package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// (shop, name)重複はErrConflict。
func (r *CategoryGormRepository) Create(ctx context.Context, c model.ProductCategory) (model.ProductCategory, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ProductCategory{}, repo.ErrConflict
		}
		return model.ProductCategory{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) FindOwned(ctx context.Context, categoryID int64, ownerID int64) (model.ProductCategory, error) {
	var c model.ProductCategory
	err := r.db.WithContext(ctx).
		Joins("join shops on shops.id = product_categories.shop_id").
		Where("product_categories.id = ? AND shops.owner_user_id = ?", categoryID, ownerID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductCategory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductCategory{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) ListByOwner(ctx context.Context, ownerID int64, shopID *int64) ([]model.ProductCategory, error) {
	tx := r.db.WithContext(ctx).Model(&model.ProductCategory{}).
		Joins("join shops on shops.id = product_categories.shop_id").
		Where("shops.owner_user_id = ?", ownerID)

	if shopID != nil {
		tx = tx.Where("product_categories.shop_id = ?", *shopID)
	}

	var categories []model.ProductCategory
	err := tx.Order("product_categories.name asc").Order("product_categories.id asc").
		Find(&categories).Error
	if err != nil {
		return []model.ProductCategory{}, err
	}
	return categories, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.ProductCategory) error {
	res := r.db.WithContext(ctx).Model(&model.ProductCategory{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repo.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryGormRepository) Delete(ctx context.Context, categoryID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductCategory{}, categoryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
