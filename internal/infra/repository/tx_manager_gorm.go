package repository

import (
	"context"

	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	shops      repo.ShopRepository
	categories repo.CategoryRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	sales      repo.SaleRepository
	saleItems  repo.SaleItemRepository
	movements  repo.StockMovementRepository
}

func (r *txReposGorm) Shops() repo.ShopRepository              { return r.shops }
func (r *txReposGorm) Categories() repo.CategoryRepository     { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository        { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository     { return r.inventory }
func (r *txReposGorm) Sales() repo.SaleRepository              { return r.sales }
func (r *txReposGorm) SaleItems() repo.SaleItemRepository      { return r.saleItems }
func (r *txReposGorm) Movements() repo.StockMovementRepository { return r.movements }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			shops:      NewShopGormRepository(tx),
			categories: NewCategoryGormRepository(tx),
			products:   NewProductGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
			sales:      NewSaleGormRepository(tx),
			saleItems:  NewSaleItemGormRepository(tx),
			movements:  NewStockMovementGormRepository(tx),
		}
		return fn(r)
	})
}
