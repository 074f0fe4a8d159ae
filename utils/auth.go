// utils/auth.go
package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadrover06/MAD-MACEDAI/middleware"
	"github.com/roadrover06/MAD-MACEDAI/models"
)

// TokenDuration is how long a cashier session token stays valid.
const TokenDuration = 12 * time.Hour

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against its bcrypt hash.
func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateToken issues a signed JWT for a cashier session.
func GenerateToken(user *models.User) (string, error) {
	claims := &middleware.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		FullName: user.FullName(),
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(TokenDuration).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(middleware.GetJWTSecret()))
}
