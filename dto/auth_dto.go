package dto

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID        string   `json:"userId"`
	Email         string   `json:"email"`
	Organizations []string `json:"orgs"`
	jwt.RegisteredClaims
}

// HasOrganization reports whether the token grants access to the organization
func (c TokenClaims) HasOrganization(organizationID string) bool {
	for _, org := range c.Organizations {
		if org == organizationID {
			return true
		}
	}
	return false
}
