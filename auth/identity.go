// Package auth extracts the local user identity from the configured access
// token. The token is issued and verified by the platform; on this side of
// the boundary it is only a carrier of identity claims, so the parse is
// deliberately unverified.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

// IdentityClaims defines the structure of the data stored inside the JWT.
type IdentityClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LocalUser decodes the user id and display name out of tokenString.
// Signature verification is the server's job (authentication is an external
// collaborator), so only the claim shape is checked here.
func LocalUser(tokenString string) (domain.User, error) {
	parser := jwt.NewParser()
	claims := &IdentityClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return domain.User{}, fmt.Errorf("access token parse: %w", err)
	}
	if claims.UserID == "" {
		return domain.User{}, fmt.Errorf("access token carries no user_id claim")
	}
	name := claims.Username
	if name == "" {
		name = claims.UserID
	}
	return domain.User{ID: claims.UserID, DisplayName: name}, nil
}
