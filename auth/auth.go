package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Auth issues and validates session tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// New creates an Auth signing with the given HS256 secret.
func New(secret string, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// IssueToken creates a signed session token for the given user.
func (a *Auth) IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// UserIDFromToken validates a raw token and extracts the user identifier.
func (a *Auth) UserIDFromToken(tokenStr string) (string, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return "", errors.New("malformed token")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", errors.New("missing userId claim")
	}
	return userID, nil
}

// UserIDFromAuthHeader extracts the user identifier from an
// "Authorization: Bearer <token>" header value.
func (a *Auth) UserIDFromAuthHeader(h string) (string, error) {
	if h == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("bad auth header")
	}
	return a.UserIDFromToken(parts[1])
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
