package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

const identityKey = "identity"

// Authenticate extracts the caller identity from an "Authorization: Bearer"
// header. It never rejects a request: a missing, malformed or unverifiable
// token simply leaves the request anonymous and Authorize decides.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			token, err := bearerToken(header)
			if err == nil {
				var claims *domain.Claims
				if claims, err = verifier.Verify(token); err == nil {
					c.Set(identityKey, claims.Identity())
					return next(c)
				}
			}

			reason := rejectionReason(err)
			metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
			log.Debug().
				Str("reason", reason).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("token rejected")
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenIssuer):
		return "issuer"
	case errors.Is(err, domain.ErrTokenAudience):
		return "audience"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRole):
		return "role"
	default:
		return "malformed"
	}
}
