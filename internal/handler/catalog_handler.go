package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context(), tenant(c).GroupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.categories.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) CreateCategory(c echo.Context) error {
	var req store.CategoryInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	category, err := h.categories.Create(c.Request().Context(), tenant(c).GroupID, req)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req store.CategoryInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	category, err := h.categories.Update(c.Request().Context(), tenant(c).GroupID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.categories.Delete(c.Request().Context(), tenant(c).GroupID, id); err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Category deleted", zap.String("category_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

// ListProducts supports ?category= and ?status= filters
func (h *Handler) ListProducts(c echo.Context) error {
	filter := store.ProductFilter{
		Category: c.QueryParam("category"),
		Status:   model.ProductStatus(c.QueryParam("status")),
	}
	products, err := h.products.List(c.Request().Context(), tenant(c).GroupID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.products.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var req store.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.products.Create(c.Request().Context(), tenant(c).GroupID, req)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("category", product.Category))
	return c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req store.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.products.Update(c.Request().Context(), tenant(c).GroupID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.products.Delete(c.Request().Context(), tenant(c).GroupID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
