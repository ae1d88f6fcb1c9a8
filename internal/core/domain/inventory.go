package domain

import "time"

// Category groups products. Deleting a category deletes its products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a stocked item.
type Product struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	ArrivalDate       time.Time `json:"arrival_date"`
	ExpiryDate        time.Time `json:"expiry_date"`
	IsWriteOffAllowed bool      `json:"is_write_off_allowed"`
	CategoryID        int64     `json:"category_id"`
	Category          *Category `json:"category,omitempty"`
}

// SortOrder orders product listings by arrival date.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// Page bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps out-of-range values to the defaults.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns the page count for total rows.
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	n := int(total) / p.Size
	if int(total)%p.Size > 0 {
		n++
	}
	return n
}
