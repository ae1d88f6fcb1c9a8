package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

const maxNameLength = 100

// resolveStaleWrite turns a repository stale write into NotFound or Conflict
// by checking the current store state once. Other errors pass through.
func resolveStaleWrite(ctx context.Context, err error, id int64, exists func(context.Context, int64) (bool, error), notFound error) error {
	if !errors.Is(err, domain.ErrStaleWrite) {
		return err
	}
	ok, xerr := exists(ctx, id)
	if xerr != nil {
		return fmt.Errorf("check existence after stale write: %w", xerr)
	}
	if !ok {
		return notFound
	}
	return domain.ErrConcurrentUpdate
}

// checkPathID rejects a body id that disagrees with the path id. A zero body
// id means the body did not carry one.
func checkPathID(pathID, bodyID int64) error {
	if pathID <= 0 {
		return domain.Invalid("id must be a positive integer")
	}
	if bodyID != 0 && bodyID != pathID {
		return domain.ErrIDMismatch
	}
	return nil
}

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid(field + " is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", domain.Invalid(fmt.Sprintf("%s must be at most %d characters", field, maxNameLength))
	}
	return name, nil
}

func newPage[T any](items []T, total int64, page domain.Page) *ports.PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ports.PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Size:       page.Size,
		TotalPages: page.TotalPages(total),
	}
}
