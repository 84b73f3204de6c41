package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// レシート番号の重複はErrConflict（呼び出し側が採番し直す）。
func (r *SaleGormRepository) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Sale{}, repo.ErrConflict
		}
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) FindOwned(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Joins("join shops on shops.id = sales.shop_id").
		Where("sales.id = ? AND shops.owner_user_id = ?", saleID, ownerID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

// 売上ヘッダの行ロック。同じ売上への明細追加と売上削除を直列化する。
func (r *SaleGormRepository) FindOwnedForUpdate(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "sales"}}).
		Joins("join shops on shops.id = sales.shop_id").
		Where("sales.id = ? AND shops.owner_user_id = ?", saleID, ownerID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Sale{}).
		Joins("join shops on shops.id = sales.shop_id").
		Where("shops.owner_user_id = ?", f.OwnerUserID)

	if f.ShopID != nil {
		tx = tx.Where("sales.shop_id = ?", *f.ShopID)
	}

	//期間絞り込み
	if f.From != nil {
		tx = tx.Where("sales.sale_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("sales.sale_date <= ?", *f.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Sale{}, 0, err
	}

	var sales []model.Sale
	offset := (f.Page - 1) * f.Limit
	err := tx.Order("sales.sale_date desc").Order("sales.id desc").
		Limit(f.Limit).Offset(offset).
		Find(&sales).Error
	if err != nil {
		return []model.Sale{}, 0, err
	}

	return sales, total, nil
}

func (r *SaleGormRepository) Delete(ctx context.Context, saleID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Sale{}, saleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SaleGormRepository) CountByShopID(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
