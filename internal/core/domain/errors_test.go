package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnclassified},
		{"plain", errors.New("boom"), KindUnclassified},
		{"stale write alone", ErrStaleWrite, KindUnclassified},
		{"invalid credentials", ErrInvalidCredentials, KindUnauthenticated},
		{"expired token", ErrTokenExpired, KindUnauthenticated},
		{"registration closed", ErrRegistrationClosed, KindForbidden},
		{"wrapped not found", fmt.Errorf("get category: %w", ErrCategoryNotFound), KindNotFound},
		{"invalid", Invalid("name is required"), KindInvalidArgument},
		{"username taken", ErrUsernameTaken, KindConflict},
		{"locked", ErrLoginLocked, KindRateLimited},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// An error that is both Unauthenticated and NotFound classifies as Unauthenticated.
	err := errors.Join(ErrUserNotFound, ErrInvalidCredentials)
	if got := Classify(err); got != KindUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %s", got)
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(fmt.Errorf("update: %w", ErrProductNotFound)); got != "product not found" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PublicMessage(fmt.Errorf("x: %w", ErrNotFound)); got != ErrNotFound.Error() {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PublicMessage(errors.New("pq: connection refused")); got != "internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"Admin": RoleAdmin, "admin": RoleAdmin, " DOCTOR ": RoleDoctor} {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseRole("nurse"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestPage_Normalize(t *testing.T) {
	p := Page{Number: 0, Size: 500}.Normalize()
	if p.Number != 1 || p.Size != MaxPageSize {
		t.Fatalf("unexpected page %+v", p)
	}
	p = Page{Number: 3, Size: 10}.Normalize()
	if p.Offset() != 20 {
		t.Fatalf("unexpected offset %d", p.Offset())
	}
	if got := p.TotalPages(21); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
}
