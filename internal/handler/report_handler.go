package handler

import (
	"net/http"

	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	uc *usecase.ReportUsecase
}

// DI
func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports/sales", h.salesRollup)
	g.GET("/reports/product-sold", h.productSold)
}

func (h *ReportHandler) salesRollup(c echo.Context) error {
	shopID, ok := queryInt64Ptr(c, "shop_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid shop_id"})
	}
	from, ok := queryTimePtr(c, "from", false)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, ok := queryTimePtr(c, "to", true)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}
	minAmount, ok := queryInt64Ptr(c, "min_amount")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_amount"})
	}
	maxAmount, ok := queryInt64Ptr(c, "max_amount")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_amount"})
	}

	out, err := h.uc.SalesRollup(c.Request().Context(), ownerIDFrom(c), usecase.SalesRollupInput{
		ShopID:    shopID,
		From:      from,
		To:        to,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) productSold(c echo.Context) error {
	productID, ok := queryInt64Ptr(c, "product_id")
	if !ok || productID == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}
	from, ok := queryTimePtr(c, "from", false)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, ok := queryTimePtr(c, "to", true)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	out, err := h.uc.ProductSold(c.Request().Context(), ownerIDFrom(c), *productID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
