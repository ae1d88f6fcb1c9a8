package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService(t *testing.T, now time.Time) *JWTService {
	t.Helper()
	svc, err := NewJWTService(TokenConfig{
		Key:      testKey,
		Issuer:   "vetpharmacy",
		Audience: "vetpharmacy-clients",
		TTL:      time.Hour,
	}, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	return svc
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)

	token, exp, err := svc.Issue(&domain.User{ID: 7, Username: "alice", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti")
	}
	if claims.Identity() != (domain.Identity{Subject: "alice", Role: domain.RoleAdmin}) {
		t.Fatalf("unexpected identity %+v", claims.Identity())
	}
}

func TestJWTService_Rejections(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestTokenService(t, now)
	user := &domain.User{ID: 1, Username: "bob", Role: domain.RoleDoctor}
	valid, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	otherKey, _ := NewJWTService(TokenConfig{
		Key: []byte(strings.Repeat("z", 32)), Issuer: "vetpharmacy", Audience: "vetpharmacy-clients", TTL: time.Hour,
	}, WithClock(func() time.Time { return now }))
	forged, _, _ := otherKey.Issue(user)

	otherIssuer, _ := NewJWTService(TokenConfig{
		Key: testKey, Issuer: "someone-else", Audience: "vetpharmacy-clients", TTL: time.Hour,
	}, WithClock(func() time.Time { return now }))
	wrongIss, _, _ := otherIssuer.Issue(user)

	otherAudience, _ := NewJWTService(TokenConfig{
		Key: testKey, Issuer: "vetpharmacy", Audience: "mobile", TTL: time.Hour,
	}, WithClock(func() time.Time { return now }))
	wrongAud, _, _ := otherAudience.Issue(user)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "bob", "role": "Admin", "iss": "vetpharmacy", "aud": "vetpharmacy-clients",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bob", "role": "Nurse", "iss": "vetpharmacy", "aud": "vetpharmacy-clients",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(testKey)

	// valid signature over someone else's payload
	vp, fp := strings.Split(valid, "."), strings.Split(forged, ".")
	tampered := fp[0] + "." + fp[1] + "." + vp[2]

	cases := []struct {
		name  string
		token string
		at    time.Time
		want  error
	}{
		{"empty", "", now, domain.ErrTokenMissing},
		{"garbage", "not.a.jwt", now, domain.ErrTokenMalformed},
		{"wrong key", forged, now, domain.ErrTokenSignature},
		{"tampered", tampered, now, domain.ErrTokenSignature},
		{"alg none", none, now, domain.ErrTokenSignature},
		{"wrong issuer", wrongIss, now, domain.ErrTokenIssuer},
		{"wrong audience", wrongAud, now, domain.ErrTokenAudience},
		{"expired", valid, now.Add(time.Hour + time.Second), domain.ErrTokenExpired},
		{"bad role", badRole, now, domain.ErrTokenRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestTokenService(t, tc.at)
			_, err := svc.Verify(tc.token)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("rejection must be unauthenticated, got %v", err)
			}
		})
	}
}

func TestNewJWTService_RejectsShortKey(t *testing.T) {
	_, err := NewJWTService(TokenConfig{Key: []byte("short"), Issuer: "i", Audience: "a"})
	if err == nil {
		t.Fatalf("expected error for short key")
	}
}
