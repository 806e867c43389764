// Package security provides JWT token utilities
package security

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
	"github.com/narrativekit/storydesk-go/internal/domain/account"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// IdentityClaimsFromToken verifies an IdP-issued identity token and maps
// its claims into the account domain's flat view. Claim names are caller
// configuration; only "sub" is fixed by the token format.
func IdentityClaimsFromToken(tokenString, secret, listClaim, idClaim, usernameClaim string) (account.IdentityClaims, error) {
	claims, err := ValidateJWT(tokenString, secret)
	if err != nil {
		return account.IdentityClaims{}, err
	}
	return account.ClaimsFromMap(claims, listClaim, idClaim, usernameClaim), nil
}
