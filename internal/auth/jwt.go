package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued session token. There is no
// refresh mechanism; the client logs in again after expiry.
const TokenTTL = time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session token embedding the account id,
// expiring TokenTTL from now.
func GenerateToken(accountID string, secret []byte) (string, error) {
	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccountID validates a token string and returns the embedded account id.
// No route in this service verifies incoming tokens; this exists for the
// clients that hold the same secret and for tests.
func ParseAccountID(tokenStr string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.AccountID, nil
}
