package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	errNoConfig     = errors.New("JWT configuration not provided")
	errInvalidToken = errors.New("invalid token")
)

// JWTConfig is the HS256 secret and session lifetime for member tokens
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// UserClaims is what a member session token carries. Role decides
// access to the admin routes.
type UserClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil signs and verifies member session tokens
type JWTUtil struct {
	config *JWTConfig
}

func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{config: config}
}

func (j *JWTUtil) ttl() time.Duration {
	return time.Duration(j.config.ExpirationHours) * time.Hour
}

func (j *JWTUtil) key(t *jwt.Token) (interface{}, error) {
	if _, hmac := t.Method.(*jwt.SigningMethodHMAC); !hmac {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return []byte(j.config.SigningKey), nil
}

// GenerateToken issues a session token for a logged-in member. The subject
// is the user ID in decimal.
func (j *JWTUtil) GenerateToken(userID uint, email, name, role string) (string, error) {
	if j.config == nil {
		return "", errNoConfig
	}

	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.config.SigningKey))
}

// ValidateToken checks signature and expiry and returns the member claims
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if j.config == nil {
		return nil, errNoConfig
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.key)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}
