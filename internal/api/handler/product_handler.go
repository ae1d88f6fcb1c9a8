package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

// ProductHandler serves the /products resource.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products and its /products/filter alias.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search       query     string  false  "Case-insensitive name filter"
// @Param        category_id  query     int     false  "Only products of this category"
// @Param        sort         query     string  false  "Arrival date order"  Enums(asc, desc)
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        size         query     int     false  "Page size (default 10, max 100)"
// @Success      200          {object}  productPage
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /products [get]
// @Router       /products/filter [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q productListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), toProductFilter(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productPage{Data: nonNil(res.Items), Pagination: toPagination(res)})
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), toProduct(req))
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("product", "create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/products/%d", p.ID))
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id.
//
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int             true  "Product ID"
// @Param        body  body  productRequest  true  "Product"
// @Success      204
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, toProduct(req)); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("product", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  int  true  "Product ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("product", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
