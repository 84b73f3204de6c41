package handler

import (
	"net/http"
	"strconv"

	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 売上の作成・参照はSaleUsecase、削除は在庫を戻すのでLedgerUsecase。
type SaleHandler struct {
	uc     *usecase.SaleUsecase
	ledger *usecase.LedgerUsecase
}

// DI
func NewSaleHandler(uc *usecase.SaleUsecase, ledger *usecase.LedgerUsecase) *SaleHandler {
	return &SaleHandler{uc: uc, ledger: ledger}
}

func (h *SaleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sales", h.create)
	g.GET("/sales", h.list)
	g.GET("/sales/:id", h.detail)
	g.DELETE("/sales/:id", h.delete)
}

type createSaleRequest struct {
	ShopID int64 `json:"shop_id"`
}

func (h *SaleHandler) create(c echo.Context) error {
	var req createSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	s, err := h.uc.Create(c.Request().Context(), ownerIDFrom(c), req.ShopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SaleHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

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

	out, err := h.uc.List(c.Request().Context(), ownerIDFrom(c), usecase.ListSalesInput{
		ShopID: shopID,
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	out, err := h.uc.Get(c.Request().Context(), ownerIDFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.ledger.DeleteSale(c.Request().Context(), ownerIDFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
