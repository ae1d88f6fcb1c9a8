package service

import (
	"context"
	"strings"
	"time"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type memCategoryRepo struct {
	items     map[int64]*domain.Category
	nextID    int64
	updateErr error // if set, Update returns this error
	lastList  ports.CategoryFilter
}

func newMemCategoryRepo(names ...string) *memCategoryRepo {
	r := &memCategoryRepo{items: make(map[int64]*domain.Category)}
	for _, n := range names {
		_ = r.Create(context.Background(), &domain.Category{Name: n})
	}
	return r
}

func (r *memCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCategoryRepo) List(_ context.Context, f ports.CategoryFilter) ([]*domain.Category, int64, error) {
	r.lastList = f
	var out []*domain.Category
	for _, c := range r.items {
		if f.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrStaleWrite
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memCategoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.items[id]
	return ok, nil
}

func (r *memCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

type memProductRepo struct {
	items    map[int64]*domain.Product
	cats     *memCategoryRepo
	nextID   int64
	lastList ports.ProductFilter
	findErr  error
}

func newMemProductRepo(cats *memCategoryRepo) *memProductRepo {
	return &memProductRepo{items: make(map[int64]*domain.Product), cats: cats}
}

func (r *memProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	clone.Category, _ = r.cats.FindByID(ctx, p.CategoryID)
	return &clone, nil
}

func (r *memProductRepo) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.lastList = f
	var out []*domain.Product
	for _, p := range r.items {
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return domain.ErrStaleWrite
	}
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memProductRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.items[id]
	return ok, nil
}

type memUserRepo struct {
	byID       map[int64]*domain.User
	nextID     int64
	rehashed   map[int64]string
	findErr    error // if set, FindByUsername returns this error
	lastUpdate *domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[int64]*domain.User), rehashed: make(map[int64]string)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, _ ports.UserFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Update(_ context.Context, u *domain.User) error {
	existing, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrStaleWrite
	}
	clone := *u
	r.lastUpdate = &clone
	if clone.PasswordHash == "" {
		clone.PasswordHash = existing.PasswordHash
	}
	clone.CreatedAt = existing.CreatedAt
	r.byID[u.ID] = &clone
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.rehashed[id] = hash
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// Security stubs
// ---------------------------------------------------------------------------

// stubHasher stores "hash:<raw>" and reports needs_rehash for "old:<raw>".
type stubHasher struct {
	verifyCalls int
}

func (h *stubHasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", domain.Invalid("password must not be empty")
	}
	return "hash:" + raw, nil
}

func (h *stubHasher) Verify(hash, raw string) ports.VerifyResult {
	h.verifyCalls++
	switch hash {
	case "hash:" + raw:
		return ports.VerifySuccess
	case "old:" + raw:
		return ports.VerifyNeedsRehash
	default:
		return ports.VerifyFailure
	}
}

type stubTokens struct {
	issued []string
}

func (s *stubTokens) Issue(u *domain.User) (string, time.Time, error) {
	s.issued = append(s.issued, u.Username)
	return "token-for-" + u.Username, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (s *stubTokens) Verify(string) (*domain.Claims, error) {
	return nil, domain.ErrTokenMalformed
}

type stubLimiter struct {
	blocked   bool
	allowErr  error
	failures  int
	successes int
}

func (l *stubLimiter) Allow(context.Context, string, string) (bool, time.Duration, error) {
	if l.allowErr != nil {
		return false, 0, l.allowErr
	}
	return !l.blocked, time.Minute, nil
}

func (l *stubLimiter) Failure(context.Context, string, string) (bool, error) {
	l.failures++
	return false, nil
}

func (l *stubLimiter) Success(context.Context, string, string) error {
	l.successes++
	return nil
}

type stubQueue struct {
	jobs []ports.RehashJob
}

func (q *stubQueue) Enqueue(job ports.RehashJob) bool {
	q.jobs = append(q.jobs, job)
	return true
}
