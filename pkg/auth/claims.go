package auth

import (
	"context"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the loan service. BorrowerID is set
// for tokens issued to borrowers and scopes them to their own loans.
type Claims struct {
	jwt.RegisteredClaims
	BorrowerID string   `json:"borrower_id,omitempty"`
	Roles      []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleBorrower = "borrower"
)

// BorrowerScope returns the borrower id the caller in ctx is restricted to.
// Unauthenticated contexts and staff roles are unrestricted.
func BorrowerScope(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.HasRole(RoleAdmin) || claims.HasRole(RoleOperator) {
		return "", false
	}
	return claims.BorrowerID, true
}
