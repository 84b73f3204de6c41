package server

import (
	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Shop     *handler.ShopHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Sale     *handler.SaleHandler
	SaleItem *handler.SaleItemHandler
	Report   *handler.ReportHandler
}

// ルートを組み立てたechoを返す。/auth/*以外は全部JWT必須。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	h.Auth.RegisterRoutes(e)

	g := e.Group("", middleware.AuthJWT(cfg))
	h.Shop.RegisterRoutes(g)
	h.Category.RegisterRoutes(g)
	h.Product.RegisterRoutes(g)
	h.Sale.RegisterRoutes(g)
	h.SaleItem.RegisterRoutes(g)
	h.Report.RegisterRoutes(g)

	return e
}
