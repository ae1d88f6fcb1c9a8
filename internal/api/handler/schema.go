package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// ErrorBody describes a failed request.
type ErrorBody struct {
	Message    string `json:"message"`
	Type       string `json:"type"`
	StatusCode int    `json:"statusCode"`
}

// ErrorResponse is the envelope returned on every 4xx/5xx response.
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	TraceID string    `json:"traceId"`
}

// --- Request types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type listQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
	Size   int    `query:"size"`
}

// productListQuery repeats the paging fields: Echo's binder skips embedded
// unexported structs.
type productListQuery struct {
	Search     string `query:"search"`
	Page       int    `query:"page"`
	Size       int    `query:"size"`
	CategoryID int64  `query:"category_id"`
	Sort       string `query:"sort"`
}

type categoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required,max=100"`
}

type productRequest struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"                 validate:"required,max=100"`
	Quantity          int      `json:"quantity"             validate:"gte=0"`
	ArrivalDate       dateTime `json:"arrival_date"         swaggertype:"string" example:"2024-05-01"`
	ExpiryDate        dateTime `json:"expiry_date"          swaggertype:"string" example:"2026-05-01"`
	IsWriteOffAllowed bool     `json:"is_write_off_allowed"`
	CategoryID        int64    `json:"category_id"          validate:"required,gt=0"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"omitempty" example:"Doctor"`
}

type updateUserRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Role     string `json:"role"     example:"Doctor"`
}

// --- Response types ---

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

type categoryPage struct {
	Data       []*domain.Category `json:"data"`
	Pagination pagination         `json:"pagination"`
}

type productPage struct {
	Data       []*domain.Product `json:"data"`
	Pagination pagination        `json:"pagination"`
}

type userPage struct {
	Data       []*domain.User `json:"data"`
	Pagination pagination     `json:"pagination"`
}

func toPagination[T any](p *ports.PageResult[T]) pagination {
	return pagination{Total: p.Total, Page: p.Page, Size: p.Size, TotalPages: p.TotalPages}
}

// nonNil keeps empty pages rendering as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// dateTime accepts either a calendar date or an RFC 3339 timestamp.
type dateTime struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

func (d *dateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unsupported date %q", s)
}
