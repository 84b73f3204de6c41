package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleItemGormRepository struct {
	db *gorm.DB
}

func NewSaleItemGormRepository(db *gorm.DB) *SaleItemGormRepository {
	return &SaleItemGormRepository{db: db}
}

// (sale, product)重複はErrConflict。
// 親（Sale/Product）の関連はFK宣言用なのでupsertさせない。
func (r *SaleItemGormRepository) Create(ctx context.Context, item model.SaleItem) (model.SaleItem, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
		if isUniqueViolation(err) {
			return model.SaleItem{}, repo.ErrConflict
		}
		return model.SaleItem{}, err
	}
	return item, nil
}

// FOR UPDATEで明細行をロックして取得する。
// 数量の差分は必ずこの読みから計算する（古い読みからの差分計算を禁止）。
func (r *SaleItemGormRepository) FindOwnedForUpdate(ctx context.Context, itemID int64, ownerID int64) (model.SaleItem, error) {
	var item model.SaleItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "sale_items"}}).
		Joins("join sales on sales.id = sale_items.sale_id").
		Joins("join shops on shops.id = sales.shop_id").
		Where("sale_items.id = ? AND shops.owner_user_id = ?", itemID, ownerID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SaleItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SaleItem{}, err
	}
	return item, nil
}

// 売上配下の全明細をロックして取得（カスケード削除用）。
func (r *SaleItemGormRepository) ListBySaleIDForUpdate(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sale_id = ?", saleID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.SaleItem{}, err
	}
	return items, nil
}

// 一覧用。レシート番号と商品の現在価格を同じ行に載せる。
func (r *SaleItemGormRepository) ListBySaleID(ctx context.Context, saleID int64) ([]repo.SaleItemWithProduct, error) {
	var rows []repo.SaleItemWithProduct
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.*, sales.receipt_number, products.name AS product_name, products.price AS unit_price").
		Joins("join sales on sales.id = sale_items.sale_id").
		Joins("join products on products.id = sale_items.product_id").
		Where("sale_items.sale_id = ?", saleID).
		Order("sale_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.SaleItemWithProduct{}, err
	}
	return rows, nil
}

func (r *SaleItemGormRepository) UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SaleItemGormRepository) Delete(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.SaleItem{}, itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SaleItemGormRepository) DeleteBySaleID(ctx context.Context, saleID int64) error {
	return r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Delete(&model.SaleItem{}).Error
}
