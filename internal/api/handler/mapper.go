package handler

import (
	"strings"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// --- Request → domain / service input ---

func (q listQuery) page() domain.Page {
	return domain.Page{Number: q.Page, Size: q.Size}
}

func toCategory(req categoryRequest) *domain.Category {
	return &domain.Category{ID: req.ID, Name: req.Name}
}

func toProduct(req productRequest) *domain.Product {
	return &domain.Product{
		ID:                req.ID,
		Name:              req.Name,
		Quantity:          req.Quantity,
		ArrivalDate:       req.ArrivalDate.Time,
		ExpiryDate:        req.ExpiryDate.Time,
		IsWriteOffAllowed: req.IsWriteOffAllowed,
		CategoryID:        req.CategoryID,
	}
}

func toProductFilter(q productListQuery) ports.ProductFilter {
	return ports.ProductFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Sort:       domain.SortOrder(strings.ToLower(strings.TrimSpace(q.Sort))),
		Page:       domain.Page{Number: q.Page, Size: q.Size},
	}
}

// parseOptionalRole leaves an empty role empty so the service applies its default.
func parseOptionalRole(s string) (domain.Role, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return domain.ParseRole(s)
}

func toCreateUserInput(req createUserRequest) (ports.UserInput, error) {
	role, err := parseOptionalRole(req.Role)
	if err != nil {
		return ports.UserInput{}, err
	}
	return ports.UserInput{Username: req.Username, Password: req.Password, Role: role}, nil
}

func toUpdateUserInput(req updateUserRequest) (ports.UserInput, error) {
	role, err := parseOptionalRole(req.Role)
	if err != nil {
		return ports.UserInput{}, err
	}
	return ports.UserInput{ID: req.ID, Username: req.Username, Password: req.Password, Role: role}, nil
}
