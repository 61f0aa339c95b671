package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Identity struct {
	ID       uint   `json:"nameid"`
	Username string `json:"unique_name"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// CreateSessionToken signs an HS256 token carrying the user's identity.
func CreateSessionToken(identity Identity, secret []byte, ttl time.Duration) (string, error) {
	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "worktime",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
