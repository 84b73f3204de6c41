package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Shops() ShopRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Sales() SaleRepository
	SaleItems() SaleItemRepository
	Movements() StockMovementRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 在庫と明細を同じ単位でcommit/rollbackするための境界。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
