package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/foosdev/foosball-tracker/utils"
)

// AuthService issues admin tokens. There is a single admin credential
// configured at deploy time; editing or deleting historical games requires
// it, regular game recording does not.
type AuthService struct {
	adminPasswordHash string
	jwtSecret         []byte
	tokenTTL          time.Duration
}

func NewAuthService(adminPasswordHash string, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         jwtSecret,
		tokenTTL:          tokenTTL,
	}
}

// Login verifies the admin password and returns a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if s.adminPasswordHash == "" || !utils.CheckPasswordHash(password, s.adminPasswordHash) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
