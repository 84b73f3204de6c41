package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	ShopsRepo      repo.ShopRepository
	CategoriesRepo repo.CategoryRepository
	ProductsRepo   repo.ProductRepository
	InventoryRepo  repo.InventoryRepository
	SalesRepo      repo.SaleRepository
	SaleItemsRepo  repo.SaleItemRepository
	MovementsRepo  repo.StockMovementRepository
}

func (r *TxReposMock) Shops() repo.ShopRepository              { return r.ShopsRepo }
func (r *TxReposMock) Categories() repo.CategoryRepository     { return r.CategoriesRepo }
func (r *TxReposMock) Products() repo.ProductRepository        { return r.ProductsRepo }
func (r *TxReposMock) Inventory() repo.InventoryRepository     { return r.InventoryRepo }
func (r *TxReposMock) Sales() repo.SaleRepository              { return r.SalesRepo }
func (r *TxReposMock) SaleItems() repo.SaleItemRepository      { return r.SaleItemsRepo }
func (r *TxReposMock) Movements() repo.StockMovementRepository { return r.MovementsRepo }

// =====================
// Repository mocks
// =====================

type ShopRepoMock struct{ mock.Mock }

func (m *ShopRepoMock) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.Shop)
	return out, args.Error(1)
}

func (m *ShopRepoMock) FindOwned(ctx context.Context, shopID int64, ownerID int64) (model.Shop, error) {
	args := m.Called(ctx, shopID, ownerID)
	out, _ := args.Get(0).(model.Shop)
	return out, args.Error(1)
}

func (m *ShopRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Shop, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).([]model.Shop)
	return out, args.Error(1)
}

func (m *ShopRepoMock) Update(ctx context.Context, s model.Shop) error {
	return m.Called(ctx, s).Error(0)
}

func (m *ShopRepoMock) Delete(ctx context.Context, shopID int64) error {
	return m.Called(ctx, shopID).Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) Create(ctx context.Context, c model.ProductCategory) (model.ProductCategory, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.ProductCategory)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) FindOwned(ctx context.Context, categoryID int64, ownerID int64) (model.ProductCategory, error) {
	args := m.Called(ctx, categoryID, ownerID)
	out, _ := args.Get(0).(model.ProductCategory)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) ListByOwner(ctx context.Context, ownerID int64, shopID *int64) ([]model.ProductCategory, error) {
	args := m.Called(ctx, ownerID, shopID)
	out, _ := args.Get(0).([]model.ProductCategory)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.ProductCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, categoryID int64) error {
	return m.Called(ctx, categoryID).Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).([]model.Product)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindOwned(ctx context.Context, productID int64, ownerID int64) (model.Product, error) {
	args := m.Called(ctx, productID, ownerID)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *ProductRepoMock) CountByShopID(ctx context.Context, shopID int64) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) CountSaleItemRefs(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) ClearCategory(ctx context.Context, categoryID int64) error {
	return m.Called(ctx, categoryID).Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	return m.Called(ctx, productID, newStock).Error(0)
}

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.Sale)
	return out, args.Error(1)
}

func (m *SaleRepoMock) FindOwned(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error) {
	args := m.Called(ctx, saleID, ownerID)
	out, _ := args.Get(0).(model.Sale)
	return out, args.Error(1)
}

func (m *SaleRepoMock) FindOwnedForUpdate(ctx context.Context, saleID int64, ownerID int64) (model.Sale, error) {
	args := m.Called(ctx, saleID, ownerID)
	out, _ := args.Get(0).(model.Sale)
	return out, args.Error(1)
}

func (m *SaleRepoMock) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, int64, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]model.Sale)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *SaleRepoMock) Delete(ctx context.Context, saleID int64) error {
	return m.Called(ctx, saleID).Error(0)
}

func (m *SaleRepoMock) CountByShopID(ctx context.Context, shopID int64) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

type SaleItemRepoMock struct{ mock.Mock }

func (m *SaleItemRepoMock) Create(ctx context.Context, item model.SaleItem) (model.SaleItem, error) {
	args := m.Called(ctx, item)
	out, _ := args.Get(0).(model.SaleItem)
	return out, args.Error(1)
}

func (m *SaleItemRepoMock) FindOwnedForUpdate(ctx context.Context, itemID int64, ownerID int64) (model.SaleItem, error) {
	args := m.Called(ctx, itemID, ownerID)
	out, _ := args.Get(0).(model.SaleItem)
	return out, args.Error(1)
}

func (m *SaleItemRepoMock) ListBySaleIDForUpdate(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	args := m.Called(ctx, saleID)
	out, _ := args.Get(0).([]model.SaleItem)
	return out, args.Error(1)
}

func (m *SaleItemRepoMock) ListBySaleID(ctx context.Context, saleID int64) ([]repo.SaleItemWithProduct, error) {
	args := m.Called(ctx, saleID)
	out, _ := args.Get(0).([]repo.SaleItemWithProduct)
	return out, args.Error(1)
}

func (m *SaleItemRepoMock) UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error {
	return m.Called(ctx, itemID, quantity).Error(0)
}

func (m *SaleItemRepoMock) Delete(ctx context.Context, itemID int64) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *SaleItemRepoMock) DeleteBySaleID(ctx context.Context, saleID int64) error {
	return m.Called(ctx, saleID).Error(0)
}

type MovementRepoMock struct{ mock.Mock }

func (m *MovementRepoMock) Create(ctx context.Context, mv model.StockMovement) error {
	return m.Called(ctx, mv).Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	out, _ := args.Get(0).(model.User)
	return out, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(model.User)
	return out, args.Error(1)
}

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) ListSaleLines(ctx context.Context, f repo.SalesRollupFilter) ([]repo.SaleLineRow, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]repo.SaleLineRow)
	return out, args.Error(1)
}

func (m *ReportRepoMock) ListProductLines(ctx context.Context, productID int64, ownerID int64, from *time.Time, to *time.Time) ([]repo.ProductSoldRow, error) {
	args := m.Called(ctx, productID, ownerID, from, to)
	out, _ := args.Get(0).([]repo.ProductSoldRow)
	return out, args.Error(1)
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func i64(v int64) *int64 { return &v }
