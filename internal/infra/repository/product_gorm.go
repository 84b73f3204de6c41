package repository

import (
	"context"
	"errors"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// オーナーの商品を、検索/価格帯/在庫帯/期間/ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Joins("join shops on shops.id = products.shop_id").
		Where("shops.owner_user_id = ?", q.OwnerUserID)

	if q.ShopID != nil {
		tx = tx.Where("products.shop_id = ?", *q.ShopID)
	}
	if q.CategoryID != nil {
		tx = tx.Where("products.category_id = ?", *q.CategoryID)
	}

	// q はnameを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("products.name ILIKE ?", like)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *q.MaxPrice)
	}

	//在庫帯
	if q.MinStock != nil {
		tx = tx.Where("products.stock >= ?", *q.MinStock)
	}
	if q.MaxStock != nil {
		tx = tx.Where("products.stock <= ?", *q.MaxStock)
	}

	//登録日の期間
	if q.AddedFrom != nil {
		tx = tx.Where("products.created_at >= ?", *q.AddedFrom)
	}
	if q.AddedTo != nil {
		tx = tx.Where("products.created_at <= ?", *q.AddedTo)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("products.price asc").Order("products.id asc")
	case "price_desc":
		tx = tx.Order("products.price desc").Order("products.id desc")
	case "name":
		tx = tx.Order("products.name asc").Order("products.id asc")
	default:
		tx = tx.Order("products.created_at desc").Order("products.id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// オーナーのShopに属する商品だけを返す。他人の商品は存在しない扱い。
func (r *ProductGormRepository) FindOwned(ctx context.Context, productID int64, ownerID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Joins("join shops on shops.id = products.shop_id").
		Where("products.id = ? AND shops.owner_user_id = ?", productID, ownerID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成。(shop, name)重複はErrConflict。
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Product{}, repo.ErrConflict
		}
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新。stockはここでは触らない（在庫はInventoryRepository経由）。
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":            p.Name,
		"description":     p.Description,
		"price":           p.Price,
		"reference_price": p.ReferencePrice,
		"category_id":     p.CategoryID,
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

// 明細から参照されている商品の削除はDBのFK（RESTRICT）でも弾かれる。
// 事前カウントとのすき間に明細が入った場合はここでErrConflictになる。
func (r *ProductGormRepository) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, productID)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return repo.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) CountByShopID(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// 商品を参照している明細の件数（参照がある間は削除禁止）
func (r *ProductGormRepository) CountSaleItemRefs(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// カテゴリ削除時に商品側の参照を外す（SET NULL相当）
func (r *ProductGormRepository) ClearCategory(ctx context.Context, categoryID int64) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
}
