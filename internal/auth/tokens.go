// Package auth issues and verifies the signed access tokens carried by API
// clients, and wraps password hashing so callers never touch bcrypt directly.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer generates JWT access tokens with uid and role claims.
type TokenIssuer struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	TTL          time.Duration
}

// NewTokenIssuer creates a new token issuer signing with HS256.
func NewTokenIssuer(key []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		SignedKey:    key,
		SignedMethod: jwt.SigningMethodHS256,
		TTL:          ttl,
	}
}

// Issue signs a token for the given account. userID is the account's string
// identifier, e.g. "U001"; role is one of the models.Role constants.
func (g *TokenIssuer) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(g.TTL).Unix(),
	}
	token := jwt.NewWithClaims(g.SignedMethod, claims)
	return token.SignedString(g.SignedKey)
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID string
	Role   string
}

// Verify parses and validates a token string and returns its claims.
func (g *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method != g.SignedMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.SignedKey, nil
	})
	if err != nil {
		return nil, err
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	uid, _ := mapClaims["uid"].(string)
	role, _ := mapClaims["role"].(string)
	if uid == "" || role == "" {
		return nil, fmt.Errorf("token missing uid or role claim")
	}
	return &Claims{UserID: uid, Role: role}, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
