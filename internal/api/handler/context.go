package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/api/middleware"
	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

var (
	errInvalidID    = domain.Invalid("id must be a positive integer")
	errInvalidBody  = domain.Invalid("invalid request body")
	errInvalidQuery = domain.Invalid("invalid query parameters")
)

// callerIdentity returns a copy of the request identity, or nil for anonymous callers.
func callerIdentity(c echo.Context) *domain.Identity {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil
	}
	return &id
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// bindBody decodes and validates a JSON request body. Echo's bind errors
// are replaced so the client gets an InvalidArgument response.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errInvalidBody
	}
	return c.Validate(dst)
}

// bindQuery decodes query parameters into dst using `query` tags.
func bindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return errInvalidQuery
	}
	return nil
}
