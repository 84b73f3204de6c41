package handler

import (
	"net/http"
	"strconv"
	"time"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが積んだuser_idを取り出す。無ければ0（usecase側で401）。
func ownerIDFrom(c echo.Context) int64 {
	v, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok {
		return 0
	}
	return v
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// クエリの整数（空なら nil）
func queryInt64Ptr(c echo.Context, name string) (*int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// クエリの日時。RFC3339か日付（YYYY-MM-DD）を受ける。
// endOfDay=trueなら日付指定をその日の終わりに丸める（toを含む期間にする）。
func queryTimePtr(c echo.Context, name string, endOfDay bool) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, false
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return &t, true
}

type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 商品ルートを登録（要認証グループ）
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.POST("/products", h.create)
	g.GET("/products/:id", h.detail)
	g.PUT("/products/:id", h.update)
	g.DELETE("/products/:id", h.delete)
	g.PUT("/products/:id/stock", h.setStock)
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
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
	categoryID, ok := queryInt64Ptr(c, "category_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category_id"})
	}
	minPrice, ok := queryInt64Ptr(c, "min_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
	}
	maxPrice, ok := queryInt64Ptr(c, "max_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
	}
	minStock, ok := queryInt64Ptr(c, "min_stock")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_stock"})
	}
	maxStock, ok := queryInt64Ptr(c, "max_stock")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_stock"})
	}
	addedFrom, ok := queryTimePtr(c, "added_from", false)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid added_from"})
	}
	addedTo, ok := queryTimePtr(c, "added_to", true)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid added_to"})
	}

	out, err := h.uc.List(c.Request().Context(), ownerIDFrom(c), usecase.ListProductsInput{
		ShopID:     shopID,
		CategoryID: categoryID,
		Q:          c.QueryParam("q"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		MinStock:   minStock,
		MaxStock:   maxStock,
		AddedFrom:  addedFrom,
		AddedTo:    addedTo,
		Page:       page,
		Limit:      limit,
		Sort:       c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type createProductRequest struct {
	ShopID         int64  `json:"shop_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	ReferencePrice *int64 `json:"reference_price"`
	Stock          int64  `json:"stock"`
	CategoryID     *int64 `json:"category_id"`
}

func (h *ProductHandler) create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Create(c.Request().Context(), ownerIDFrom(c), usecase.CreateProductInput{
		ShopID:         req.ShopID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ReferencePrice: req.ReferencePrice,
		Stock:          req.Stock,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	p, err := h.uc.Get(c.Request().Context(), ownerIDFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type updateProductRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Price          *int64  `json:"price"`
	ReferencePrice *int64  `json:"reference_price"`
	ClearReference bool    `json:"clear_reference"`
	CategoryID     *int64  `json:"category_id"`
	ClearCategory  bool    `json:"clear_category"`
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Update(c.Request().Context(), ownerIDFrom(c), id, usecase.UpdateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ReferencePrice: req.ReferencePrice,
		ClearReference: req.ClearReference,
		CategoryID:     req.CategoryID,
		ClearCategory:  req.ClearCategory,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.Delete(c.Request().Context(), ownerIDFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setStockRequest struct {
	Stock int64 `json:"stock"`
}

func (h *ProductHandler) setStock(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req setStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	p, err := h.uc.SetStock(c.Request().Context(), ownerIDFrom(c), id, req.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
