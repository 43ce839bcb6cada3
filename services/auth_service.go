package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"draftday/utils"
)

const hostTokenTTL = 12 * time.Hour

// AuthService checks the shared host secret and issues short-lived host
// tokens for the admin mutation routes.
type AuthService interface {
	// VerifyPassword returns whether the submitted value matches the
	// configured secret, and on success a signed host token. A wrong
	// password is not an error, just valid=false.
	VerifyPassword(password string) (bool, string, error)
}

type AuthConfig struct {
	// AdminPassword is compared in constant time. Alternatively
	// AdminPasswordHash holds a bcrypt hash; the hash wins when both are set.
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         []byte
}

type authService struct {
	cfg AuthConfig
}

func NewAuthService(cfg AuthConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) VerifyPassword(password string) (bool, string, error) {
	var valid bool
	switch {
	case s.cfg.AdminPasswordHash != "":
		valid = utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	case s.cfg.AdminPassword != "":
		valid = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	default:
		return false, "", ErrPasswordNotConfigured
	}
	if !valid {
		return false, "", nil
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "host",
		"iat":  now.Unix(),
		"exp":  now.Add(hostTokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.cfg.JWTSecret)
	if err != nil {
		return false, "", fmt.Errorf("sign host token: %w", err)
	}
	return true, signed, nil
}
