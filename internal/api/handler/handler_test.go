package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// --- stubs ---

type stubAuthService struct {
	loginFn func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

type stubCategoryService struct {
	created  *domain.Category
	updateID int64
	listed   ports.CategoryFilter
	err      error
}

func (s *stubCategoryService) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *c
	out.ID = 42
	s.created = &out
	return &out, nil
}

func (s *stubCategoryService) Get(_ context.Context, id int64) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: id, Name: "Vaccines"}, nil
}

func (s *stubCategoryService) List(_ context.Context, f ports.CategoryFilter) (*ports.PageResult[*domain.Category], error) {
	s.listed = f
	return &ports.PageResult[*domain.Category]{Page: 1, Size: 10}, s.err
}

func (s *stubCategoryService) Update(_ context.Context, id int64, _ *domain.Category) error {
	s.updateID = id
	return s.err
}

func (s *stubCategoryService) Delete(context.Context, int64) error { return s.err }

type stubProductService struct {
	filter  ports.ProductFilter
	created *domain.Product
}

func (s *stubProductService) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	out := *p
	out.ID = 7
	s.created = &out
	return &out, nil
}

func (s *stubProductService) Get(_ context.Context, id int64) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (s *stubProductService) List(_ context.Context, f ports.ProductFilter) (*ports.PageResult[*domain.Product], error) {
	s.filter = f
	return &ports.PageResult[*domain.Product]{
		Items: []*domain.Product{{ID: 1, Name: "Rabies vaccine"}},
		Total: 1, Page: 1, Size: 10, TotalPages: 1,
	}, nil
}

func (s *stubProductService) Update(context.Context, int64, *domain.Product) error { return nil }
func (s *stubProductService) Delete(context.Context, int64) error                  { return nil }

type stubUserService struct {
	caller *domain.Identity
	input  ports.UserInput
	err    error
}

func (s *stubUserService) Create(_ context.Context, caller *domain.Identity, in ports.UserInput) (*domain.User, error) {
	s.caller, s.input = caller, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: 3, Username: in.Username, Role: domain.RoleAdmin}, nil
}

func (s *stubUserService) Get(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, Username: "alice", PasswordHash: "$2a$12$secret", Role: domain.RoleDoctor}, nil
}

func (s *stubUserService) List(context.Context, ports.UserFilter) (*ports.PageResult[*domain.User], error) {
	return &ports.PageResult[*domain.User]{}, nil
}

func (s *stubUserService) Update(_ context.Context, _ int64, in ports.UserInput) error {
	s.input = in
	return s.err
}

func (s *stubUserService) Delete(context.Context, int64) error { return nil }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// --- helpers ---

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// --- auth ---

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Username != "alice" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			if in.ClientIP == "" {
				t.Fatalf("client address not forwarded")
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User:      &domain.User{ID: 1, Username: "alice", Role: domain.RoleAdmin, PasswordHash: "hash"},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["token_type"] != "Bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_PassesServiceError(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", "{")

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice"}`)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrInvalidArgument) || !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoginOutcome(t *testing.T) {
	cases := map[string]error{
		"success":             nil,
		"locked":              domain.ErrLoginLocked,
		"invalid_credentials": domain.ErrInvalidCredentials,
		"invalid_request":     domain.Invalid("username is required"),
		"error":               errors.New("boom"),
	}
	for want, err := range cases {
		if got := loginOutcome(err); got != want {
			t.Fatalf("loginOutcome(%v) = %q, want %q", err, got, want)
		}
	}
}

// --- categories ---

func TestCategoryHandler_Create(t *testing.T) {
	svc := &stubCategoryService{}
	c, rec := newContext(http.MethodPost, "/categories", `{"name":"Vaccines"}`)

	if err := NewCategoryHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/categories/42" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if svc.created == nil || svc.created.Name != "Vaccines" {
		t.Fatalf("service not called with body: %+v", svc.created)
	}
}

func TestCategoryHandler_Create_ValidationMessage(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/categories", `{"name":""}`)

	err := NewCategoryHandler(&stubCategoryService{}).Create(c)
	if !errors.Is(err, domain.ErrInvalidArgument) || err.Error() != "name is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCategoryHandler_Update(t *testing.T) {
	svc := &stubCategoryService{}
	c, rec := newContext(http.MethodPut, "/categories/5", `{"id":5,"name":"Dental Care"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := NewCategoryHandler(svc).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || svc.updateID != 5 {
		t.Fatalf("unexpected result: code=%d id=%d", rec.Code, svc.updateID)
	}
}

func TestCategoryHandler_BadPathID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		c, _ := newContext(http.MethodGet, "/categories/"+raw, "")
		c.SetParamNames("id")
		c.SetParamValues(raw)

		if err := NewCategoryHandler(&stubCategoryService{}).Get(c); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("id %q: expected InvalidArgument, got %v", raw, err)
		}
	}
}

func TestCategoryHandler_List(t *testing.T) {
	svc := &stubCategoryService{}
	c, rec := newContext(http.MethodGet, "/categories?search=vac&page=2&size=5", "")

	if err := NewCategoryHandler(svc).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.listed.Search != "vac" || svc.listed.Page.Number != 2 || svc.listed.Page.Size != 5 {
		t.Fatalf("unexpected filter %+v", svc.listed)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("empty page must render as an array: %s", rec.Body.String())
	}
}

func TestCategoryHandler_List_BadQuery(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/categories?page=abc", "")

	if err := NewCategoryHandler(&stubCategoryService{}).List(c); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// --- products ---

func TestProductHandler_List_Filters(t *testing.T) {
	svc := &stubProductService{}
	c, rec := newContext(http.MethodGet, "/products/filter?search=rab&category_id=3&sort=ASC&page=3&size=20", "")

	if err := NewProductHandler(svc).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	f := svc.filter
	if f.Search != "rab" || f.CategoryID != 3 || f.Sort != domain.SortAsc ||
		f.Page.Number != 3 || f.Page.Size != 20 {
		t.Fatalf("unexpected filter %+v", f)
	}

	var resp struct {
		Data       []domain.Product `json:"data"`
		Pagination pagination       `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", resp)
	}
}

func TestProductHandler_Create_AcceptsDateOnly(t *testing.T) {
	svc := &stubProductService{}
	body := `{"name":"Amoxicillin","quantity":5,"arrival_date":"2024-05-01","expiry_date":"2026-05-01T00:00:00Z","category_id":1}`
	c, rec := newContext(http.MethodPost, "/products", body)

	if err := NewProductHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || rec.Header().Get(echo.HeaderLocation) != "/products/7" {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !svc.created.ArrivalDate.Equal(want) {
		t.Fatalf("arrival date = %v, want %v", svc.created.ArrivalDate, want)
	}
}

func TestProductHandler_Create_RejectsNegativeQuantity(t *testing.T) {
	body := `{"name":"Amoxicillin","quantity":-1,"arrival_date":"2024-05-01","expiry_date":"2026-05-01","category_id":1}`
	c, _ := newContext(http.MethodPost, "/products", body)

	err := NewProductHandler(&stubProductService{}).Create(c)
	if !errors.Is(err, domain.ErrInvalidArgument) || !strings.Contains(err.Error(), "quantity") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProductHandler_Create_RejectsBadDate(t *testing.T) {
	body := `{"name":"Amoxicillin","quantity":1,"arrival_date":"yesterday","expiry_date":"2026-05-01","category_id":1}`
	c, _ := newContext(http.MethodPost, "/products", body)

	if err := NewProductHandler(&stubProductService{}).Create(c); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// --- users ---

func TestUserHandler_Create_AnonymousCaller(t *testing.T) {
	svc := &stubUserService{}
	c, rec := newContext(http.MethodPost, "/users", `{"username":"root","password":"s3cret"}`)

	if err := NewUserHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.caller != nil {
		t.Fatalf("expected anonymous caller, got %+v", svc.caller)
	}
	if svc.input.Role != "" {
		t.Fatalf("empty role must be left to the service default, got %q", svc.input.Role)
	}
	if rec.Code != http.StatusCreated || rec.Header().Get(echo.HeaderLocation) != "/users/3" {
		t.Fatalf("unexpected response %d", rec.Code)
	}
}

func TestUserHandler_Create_ParsesRole(t *testing.T) {
	svc := &stubUserService{}
	c, _ := newContext(http.MethodPost, "/users", `{"username":"house","password":"pw","role":"doctor"}`)

	if err := NewUserHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.input.Role != domain.RoleDoctor {
		t.Fatalf("unexpected role %q", svc.input.Role)
	}
}

func TestUserHandler_Create_UnknownRole(t *testing.T) {
	svc := &stubUserService{}
	c, _ := newContext(http.MethodPost, "/users", `{"username":"x","password":"pw","role":"nurse"}`)

	if err := NewUserHandler(svc).Create(c); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestUserHandler_Create_PasswordTooLong(t *testing.T) {
	body := `{"username":"x","password":"` + strings.Repeat("a", 73) + `"}`
	c, _ := newContext(http.MethodPost, "/users", body)

	if err := NewUserHandler(&stubUserService{}).Create(c); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestUserHandler_Get_HidesHash(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := NewUserHandler(&stubUserService{}).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

// --- health ---

func TestReadinessHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health/ready", "")
	h := NewReadinessHandler(zerolog.Nop(), Dependency{Name: "postgres", Pinger: stubPinger{}})
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var logs bytes.Buffer
	c, rec = newContext(http.MethodGet, "/health/ready", "")
	h = NewReadinessHandler(
		zerolog.New(&logs),
		Dependency{Name: "postgres", Pinger: stubPinger{}},
		Dependency{Name: "redis", Pinger: stubPinger{err: errors.New("dial tcp 10.0.0.7:6379: connection refused")}},
	)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["postgres"].Status != "ok" {
		t.Fatalf("unexpected readiness %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.7") || strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("ping error leaked into the response: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "connection refused") || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected the ping error in the log, got %s", logs.String())
	}
}
