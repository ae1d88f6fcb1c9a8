package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

// UserHandler serves the /users resource.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive username filter"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        size    query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  userPage
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.UserFilter{Search: q.Search, Page: q.page()})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userPage{Data: nonNil(res.Items), Pagination: toPagination(res)})
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /users. Without a token it only succeeds while no user
// exists; that first account becomes an Admin.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in, err := toCreateUserInput(req)
	if err != nil {
		return err
	}

	u, err := h.service.Create(c.Request().Context(), callerIdentity(c), in)
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("user", "create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/users/%d", u.ID))
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users/:id. An empty password keeps the current one.
//
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                true  "User ID"
// @Param        body  body  updateUserRequest  true  "User"
// @Success      204
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in, err := toUpdateUserInput(req)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, in); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("user", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("user", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
