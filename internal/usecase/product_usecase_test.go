package usecase_test

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductMocks() (*TxManagerMock, *ShopRepoMock, *CategoryRepoMock, *ProductRepoMock, *InventoryRepoMock, *MovementRepoMock) {
	shops := new(ShopRepoMock)
	categories := new(CategoryRepoMock)
	products := new(ProductRepoMock)
	inventory := new(InventoryRepoMock)
	movements := new(MovementRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		ShopsRepo:      shops,
		CategoriesRepo: categories,
		ProductsRepo:   products,
		InventoryRepo:  inventory,
		MovementsRepo:  movements,
	}}
	tx.On("WithinTx", mock.Anything).Return()

	return tx, shops, categories, products, inventory, movements
}

func TestProduct_Create_OK(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	shops.On("FindOwned", mock.Anything, int64(5), int64(1)).Return(model.Shop{ID: 5}, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "coffee" && p.ShopID == 5 && p.Price == 300 && p.Stock == 10
	})).Return(model.Product{ID: 7, Name: "coffee", ShopID: 5, Price: 300, Stock: 10}, nil)

	p, err := uc.Create(context.Background(), 1, usecase.CreateProductInput{
		ShopID: 5, Name: " coffee ", Price: 300, Stock: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestProduct_Create_DuplicateNameInShop(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	shops.On("FindOwned", mock.Anything, int64(5), int64(1)).Return(model.Shop{ID: 5}, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)

	_, err := uc.Create(context.Background(), 1, usecase.CreateProductInput{
		ShopID: 5, Name: "coffee", Price: 300,
	})
	assertErrContains(t, err, "already exists")
}

func TestProduct_Create_CategoryFromAnotherShop(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	shops.On("FindOwned", mock.Anything, int64(5), int64(1)).Return(model.Shop{ID: 5}, nil)
	categories.On("FindOwned", mock.Anything, int64(3), int64(1)).
		Return(model.ProductCategory{ID: 3, ShopID: 6}, nil)

	_, err := uc.Create(context.Background(), 1, usecase.CreateProductInput{
		ShopID: 5, Name: "coffee", Price: 300, CategoryID: i64(3),
	})
	assertErrContains(t, err, "different shop")

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProduct_Create_InvalidPrice(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	_, err := uc.Create(context.Background(), 1, usecase.CreateProductInput{
		ShopID: 5, Name: "coffee", Price: 0,
	})
	assertErrContains(t, err, "price must be >= 1")

	shops.AssertNotCalled(t, "FindOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestProduct_Update_DoesNotTouchStock(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7, ShopID: 5, Name: "coffee", Price: 300, Stock: 10}, nil)
	newName := "espresso"
	products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "espresso" && p.Stock == 10
	})).Return(nil)

	p, err := uc.Update(context.Background(), 1, 7, usecase.UpdateProductInput{Name: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "espresso", p.Name)
	assert.Equal(t, int64(10), p.Stock)
}

func TestProduct_Delete_BlockedWhileReferencedBySaleItems(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7}, nil)
	products.On("CountSaleItemRefs", mock.Anything, int64(7)).Return(int64(2), nil)

	err := uc.Delete(context.Background(), 1, 7)
	assertErrContains(t, err, "referenced by sale items")

	products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProduct_Delete_OKWhenUnreferenced(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7}, nil)
	products.On("CountSaleItemRefs", mock.Anything, int64(7)).Return(int64(0), nil)
	products.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := uc.Delete(context.Background(), 1, 7)
	assert.NoError(t, err)
	products.AssertExpectations(t)
}

func TestProduct_Delete_FKViolationAfterCountIs409(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	//カウント時点では参照ゼロだが、削除までの間に明細が入った場合。
	//DBのFK（RESTRICT）が弾き、repoはErrConflictを返す。
	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7}, nil)
	products.On("CountSaleItemRefs", mock.Anything, int64(7)).Return(int64(0), nil)
	products.On("Delete", mock.Anything, int64(7)).Return(repo.ErrConflict)

	err := uc.Delete(context.Background(), 1, 7)
	assertErrContains(t, err, "referenced by sale items")

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok) {
		assert.Equal(t, 409, he.Status)
	}
}

func TestProduct_SetStock_RecordsMovementDelta(t *testing.T) {
	tx, shops, categories, products, inventory, movements := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7, Stock: 10}, nil)
	inventory.On("SetStock", mock.Anything, int64(7), int64(4)).Return(nil)
	movements.On("Create", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.ProductID == 7 && mv.Delta == -6 && mv.Reason == model.MovementStockSet
	})).Return(nil)

	p, err := uc.SetStock(context.Background(), 1, 7, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), p.Stock)

	inventory.AssertExpectations(t)
	movements.AssertExpectations(t)
}

func TestProduct_SetStock_NegativeRejected(t *testing.T) {
	tx, shops, categories, products, inventory, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	_, err := uc.SetStock(context.Background(), 1, 7, -1)
	assertErrContains(t, err, "stock must be >= 0")

	inventory.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestProduct_SetStock_SameValueSkipsMovement(t *testing.T) {
	tx, shops, categories, products, inventory, movements := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	products.On("FindOwned", mock.Anything, int64(7), int64(1)).
		Return(model.Product{ID: 7, Stock: 10}, nil)
	inventory.On("SetStock", mock.Anything, int64(7), int64(10)).Return(nil)

	_, err := uc.SetStock(context.Background(), 1, 7, 10)
	assert.NoError(t, err)

	movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProduct_List_InvalidSort(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	_, err := uc.List(context.Background(), 1, usecase.ListProductsInput{Page: 1, Limit: 20, Sort: "random"})
	assertErrContains(t, err, "invalid sort")

	products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestProduct_List_PriceRangeValidated(t *testing.T) {
	tx, shops, categories, products, _, _ := newProductMocks()
	uc := usecase.NewProductUsecase(tx, shops, categories, products)

	_, err := uc.List(context.Background(), 1, usecase.ListProductsInput{
		Page: 1, Limit: 20, MinPrice: i64(500), MaxPrice: i64(100),
	})
	assertErrContains(t, err, "min_price must be <= max_price")
}
