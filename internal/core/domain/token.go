package domain

import "time"

// Token rejection reasons. All of them are Unauthenticated; callers see a
// generic 401 and the reason only reaches logs and metrics.
var (
	ErrTokenMissing   = NewError(ErrUnauthenticated, "authentication token is missing")
	ErrTokenMalformed = NewError(ErrUnauthenticated, "authentication token is malformed")
	ErrTokenSignature = NewError(ErrUnauthenticated, "authentication token signature is invalid")
	ErrTokenIssuer    = NewError(ErrUnauthenticated, "authentication token issuer is not accepted")
	ErrTokenAudience  = NewError(ErrUnauthenticated, "authentication token audience is not accepted")
	ErrTokenExpired   = NewError(ErrUnauthenticated, "authentication token has expired")
	ErrTokenRole      = NewError(ErrUnauthenticated, "authentication token carries an unknown role")
)

// Claims are the verified contents of an identity token.
type Claims struct {
	ID        string
	Subject   string
	Role      Role
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity returns the request identity the claims describe.
func (c Claims) Identity() Identity {
	return Identity{Subject: c.Subject, Role: c.Role}
}
