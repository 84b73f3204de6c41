package repository

import (
	"context"
	"time"

	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// 売上×明細×商品を1クエリで読む。明細のない売上も返す（left join）。
// 同じ売上の行が連続するようにsale_date降順・id降順で並べる。
func (r *ReportGormRepository) ListSaleLines(ctx context.Context, f repo.SalesRollupFilter) ([]repo.SaleLineRow, error) {
	tx := r.db.WithContext(ctx).
		Table("sales").
		Select(`sales.id AS sale_id, sales.receipt_number, sales.sale_date,
			sale_items.quantity AS quantity, products.price AS price, products.reference_price AS reference_price`).
		Joins("join shops on shops.id = sales.shop_id").
		Joins("left join sale_items on sale_items.sale_id = sales.id").
		Joins("left join products on products.id = sale_items.product_id").
		Where("shops.owner_user_id = ?", f.OwnerUserID)

	if f.ShopID != nil {
		tx = tx.Where("sales.shop_id = ?", *f.ShopID)
	}
	if f.From != nil {
		tx = tx.Where("sales.sale_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("sales.sale_date <= ?", *f.To)
	}

	var rows []repo.SaleLineRow
	err := tx.Order("sales.sale_date desc").Order("sales.id desc").Order("sale_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.SaleLineRow{}, err
	}
	return rows, nil
}

// 商品1つの明細行（数量と現在価格）を期間で絞って返す。
func (r *ReportGormRepository) ListProductLines(ctx context.Context, productID int64, ownerID int64, from *time.Time, to *time.Time) ([]repo.ProductSoldRow, error) {
	tx := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.quantity AS quantity, products.price AS price").
		Joins("join sales on sales.id = sale_items.sale_id").
		Joins("join shops on shops.id = sales.shop_id").
		Joins("join products on products.id = sale_items.product_id").
		Where("sale_items.product_id = ? AND shops.owner_user_id = ?", productID, ownerID)

	if from != nil {
		tx = tx.Where("sales.sale_date >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("sales.sale_date <= ?", *to)
	}

	var rows []repo.ProductSoldRow
	if err := tx.Order("sale_items.id asc").Scan(&rows).Error; err != nil {
		return []repo.ProductSoldRow{}, err
	}
	return rows, nil
}
