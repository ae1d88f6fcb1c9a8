package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

// CategoryHandler serves the /categories resource.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive name filter"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        size    query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  categoryPage
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	var q listQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.CategoryFilter{Search: q.Search, Page: q.page()})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryPage{Data: nonNil(res.Items), Pagination: toPagination(res)})
}

// Get handles GET /categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  domain.Category
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cat, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// Create handles POST /categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cat, err := h.service.Create(c.Request().Context(), toCategory(req))
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("category", "create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/categories/%d", cat.ID))
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /categories/:id.
//
// @Summary      Replace a category
// @Tags         categories
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int              true  "Category ID"
// @Param        body  body  categoryRequest  true  "Category"
// @Success      204
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, toCategory(req)); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("category", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /categories/:id. Products of the category are removed too.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("category", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
