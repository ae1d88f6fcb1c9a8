package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var (
	errDuplicate        = domain.NewError(domain.ErrConflict, "record already exists")
	errConstraintFailed = domain.Invalid("value violates a data constraint")
)

// mapError translates driver errors into domain errors. notFound is returned
// for pgx.ErrNoRows and duplicate overrides the generic unique-violation error.
func mapError(op string, err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		switch pg.Code {
		case codeUniqueViolation:
			if duplicate != nil {
				return duplicate
			}
			return errDuplicate
		case codeForeignKeyViolation:
			return domain.ErrUnknownCategory
		case codeCheckViolation:
			return errConstraintFailed
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern escapes LIKE metacharacters and wraps s for substring matching.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// where accumulates WHERE conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT and OFFSET placeholders and returns the clause.
func (w *where) page(p domain.Page) (string, []any) {
	args := append(append([]any{}, w.args...), p.Size, p.Offset())
	n := len(w.args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
