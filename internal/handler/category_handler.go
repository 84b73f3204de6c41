package handler

import (
	"net/http"

	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/categories", h.create)
	g.GET("/categories", h.list)
	g.PUT("/categories/:id", h.update)
	g.DELETE("/categories/:id", h.delete)
}

type createCategoryRequest struct {
	ShopID int64  `json:"shop_id"`
	Name   string `json:"name"`
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.Create(c.Request().Context(), ownerIDFrom(c), usecase.CreateCategoryInput{
		ShopID: req.ShopID,
		Name:   req.Name,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) list(c echo.Context) error {
	shopID, ok := queryInt64Ptr(c, "shop_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid shop_id"})
	}
	cs, err := h.uc.List(c.Request().Context(), ownerIDFrom(c), shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cs)
}

type updateCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.Update(c.Request().Context(), ownerIDFrom(c), id, req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.Delete(c.Request().Context(), ownerIDFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
