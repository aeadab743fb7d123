package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims IdentityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test_secret"))
	require.NoError(t, err)
	return signed
}

func TestLocalUser_DecodesClaims(t *testing.T) {
	req := require.New(t)
	tokenString := signedToken(t, IdentityClaims{
		UserID:   "u-42",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	user, err := LocalUser(tokenString)
	req.NoError(err)
	req.Equal("u-42", user.ID)
	req.Equal("alice", user.DisplayName)
}

func TestLocalUser_FallsBackToIDWithoutUsername(t *testing.T) {
	req := require.New(t)
	tokenString := signedToken(t, IdentityClaims{UserID: "u-7"})

	user, err := LocalUser(tokenString)
	req.NoError(err)
	req.Equal("u-7", user.DisplayName)
}

func TestLocalUser_RejectsMissingUserID(t *testing.T) {
	req := require.New(t)
	tokenString := signedToken(t, IdentityClaims{Username: "ghost"})

	_, err := LocalUser(tokenString)
	req.Error(err)
}

func TestLocalUser_RejectsGarbage(t *testing.T) {
	_, err := LocalUser("not.a.token")
	require.Error(t, err)
}
