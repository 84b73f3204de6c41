package handler

import (
	"net/http"

	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 明細の書き込みは必ず台帳（LedgerUsecase）経由。読み取りはSaleUsecase。
type SaleItemHandler struct {
	ledger *usecase.LedgerUsecase
	sales  *usecase.SaleUsecase
}

// DI
func NewSaleItemHandler(ledger *usecase.LedgerUsecase, sales *usecase.SaleUsecase) *SaleItemHandler {
	return &SaleItemHandler{ledger: ledger, sales: sales}
}

func (h *SaleItemHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sale-items", h.create)
	g.GET("/sale-items", h.list)
	g.PUT("/sale-items/:id", h.update)
	g.DELETE("/sale-items/:id", h.delete)
}

func (h *SaleItemHandler) list(c echo.Context) error {
	saleID, ok := queryInt64Ptr(c, "sale_id")
	if !ok || saleID == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sale_id"})
	}
	out, err := h.sales.ListItems(c.Request().Context(), ownerIDFrom(c), *saleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type createSaleItemRequest struct {
	SaleID    int64 `json:"sale_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (h *SaleItemHandler) create(c echo.Context) error {
	var req createSaleItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.ledger.CreateSaleItem(c.Request().Context(), ownerIDFrom(c), usecase.CreateSaleItemInput{
		SaleID:    req.SaleID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type updateSaleItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *SaleItemHandler) update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req updateSaleItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.ledger.UpdateSaleItemQuantity(c.Request().Context(), ownerIDFrom(c), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleItemHandler) delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.ledger.DeleteSaleItem(c.Request().Context(), ownerIDFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
