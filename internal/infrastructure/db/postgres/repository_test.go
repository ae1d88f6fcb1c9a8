package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return &DB{Pool: mock}, mock
}

func TestCategoryRepository_Create(t *testing.T) {
	db, mock := newDB(t)
	r := NewCategoryRepository(db)

	mock.ExpectQuery(`INSERT INTO categories \(name\) VALUES \(\$1\) RETURNING id`).
		WithArgs("Vaccines").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))

	c := &domain.Category{Name: "Vaccines"}
	require.NoError(t, r.Create(context.Background(), c))
	assert.Equal(t, int64(4), c.ID)
}

func TestCategoryRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newDB(t)
	r := NewCategoryRepository(db)

	mock.ExpectQuery(`SELECT id, name FROM categories WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.FindByID(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Equal(t, domain.KindNotFound, domain.Classify(err))
}

func TestCategoryRepository_List_SearchAndPage(t *testing.T) {
	db, mock := newDB(t)
	r := NewCategoryRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM categories WHERE name ILIKE \$1`).
		WithArgs(`%50\%%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery(`SELECT id, name FROM categories WHERE name ILIKE \$1 ORDER BY id LIMIT \$2 OFFSET \$3`).
		WithArgs(`%50\%%`, 5, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(6), "Antibiotics 50%").
			AddRow(int64(7), "Vitamins 50%"))

	items, total, err := r.List(context.Background(), ports.CategoryFilter{Search: "50%", Page: domain.Page{Number: 2, Size: 5}})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Vitamins 50%", items[1].Name)
}

func TestCategoryRepository_Update_Stale(t *testing.T) {
	db, mock := newDB(t)
	r := NewCategoryRepository(db)

	mock.ExpectExec(`UPDATE categories SET name = \$2 WHERE id = \$1`).
		WithArgs(int64(3), "Dental Care").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.Update(context.Background(), &domain.Category{ID: 3, Name: "Dental Care"})
	require.ErrorIs(t, err, domain.ErrStaleWrite)
}

func TestCategoryRepository_Delete(t *testing.T) {
	db, mock := newDB(t)
	r := NewCategoryRepository(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.Delete(context.Background(), 3))
	require.ErrorIs(t, r.Delete(context.Background(), 3), domain.ErrCategoryNotFound)
}

func TestProductRepository_Create_UnknownCategory(t *testing.T) {
	db, mock := newDB(t)
	r := NewProductRepository(db)
	arrival := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expiry := arrival.AddDate(1, 0, 0)

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Ivermectin", 50, arrival, expiry, true, int64(77)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := r.Create(context.Background(), &domain.Product{
		Name: "Ivermectin", Quantity: 50, ArrivalDate: arrival, ExpiryDate: expiry, IsWriteOffAllowed: true, CategoryID: 77,
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestProductRepository_List_FilterAndSort(t *testing.T) {
	db, mock := newDB(t)
	r := NewProductRepository(db)
	arrival := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM products p WHERE p.category_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM products p JOIN categories c ON c.id = p.category_id WHERE p.category_id = \$1 ORDER BY p.arrival_date ASC, p.id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(2), 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "quantity", "arrival_date", "expiry_date", "is_write_off_allowed", "category_id", "category_name"}).
			AddRow(int64(1), "Nobivac DHPPi", 15, arrival, arrival.AddDate(0, 4, 0), false, int64(2), "Vaccines"))

	items, total, err := r.List(context.Background(), ports.ProductFilter{
		CategoryID: 2, Sort: domain.SortAsc, Page: domain.Page{Number: 1, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Vaccines", items[0].Category.Name)
	assert.Equal(t, int64(2), items[0].Category.ID)
}

func TestProductRepository_Update_Stale(t *testing.T) {
	db, mock := newDB(t)
	r := NewProductRepository(db)

	mock.ExpectExec(`UPDATE products`).
		WithArgs(int64(8), "x", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.Update(context.Background(), &domain.Product{ID: 8, Name: "x", CategoryID: 1})
	require.ErrorIs(t, err, domain.ErrStaleWrite)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("root", "hash", "Admin", now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := r.Create(context.Background(), &domain.User{Username: "root", PasswordHash: "hash", Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Equal(t, domain.KindConflict, domain.Classify(err))
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at FROM users WHERE username = \$1`).
		WithArgs("doc").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(int64(2), "doc", "$2a$12$abc", "Doctor", now, now))
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	u, err := r.FindByUsername(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, u.Role)

	_, err = r.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update_KeepsHash(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(`password_hash = COALESCE\(NULLIF\(\$4, ''\), password_hash\)`).
		WithArgs(int64(2), "doc", "Doctor", "", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.Update(context.Background(), &domain.User{ID: 2, Username: "doc", Role: domain.RoleDoctor, UpdatedAt: now}))
}

func TestUserRepository_UnclassifiedErrorsAreWrapped(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepository(db)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT count\(\*\) FROM users`).WillReturnError(boom)

	_, err := r.Count(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.KindUnclassified, domain.Classify(err))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}
