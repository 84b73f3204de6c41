package main

import (
	"log"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/server"
	"shop/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// レシート番号はuuidの先頭8桁
type uuidReceiptGenerator struct{}

func (g *uuidReceiptGenerator) NewReceiptNumber() string {
	return uuid.NewString()[:8]
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Shop{},
		&model.ProductCategory{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	saleItemRepo := infraRepo.NewSaleItemGormRepository(gormDB)
	reportRepo := infraRepo.NewReportGormRepository(gormDB)

	//usecaseに渡す部品
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}
	receipts := &uuidReceiptGenerator{}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer)
	shopUC := usecase.NewShopUsecase(txManager, shopRepo)
	categoryUC := usecase.NewCategoryUsecase(txManager, shopRepo, categoryRepo)
	productUC := usecase.NewProductUsecase(txManager, shopRepo, categoryRepo, productRepo)
	saleUC := usecase.NewSaleUsecase(shopRepo, saleRepo, saleItemRepo, receipts)
	ledgerUC := usecase.NewLedgerUsecase(txManager)
	reportUC := usecase.NewReportUsecase(productRepo, reportRepo)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Shop:     handler.NewShopHandler(shopUC),
		Category: handler.NewCategoryHandler(categoryUC),
		Product:  handler.NewProductHandler(productUC),
		Sale:     handler.NewSaleHandler(saleUC, ledgerUC),
		SaleItem: handler.NewSaleItemHandler(ledgerUC, saleUC),
		Report:   handler.NewReportHandler(reportUC),
	}

	//Server起動
	e := server.New(cfg, h)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
