package auth

import (
	"errors"
	"time"

	"itad_backend/internal/config"
	"itad_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload. CompanyID is empty for staff users.
type Claims struct {
	UserID    string          `json:"user_id"`
	Role      models.UserRole `json:"role"`
	CompanyID string          `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for the user.
func GenerateToken(user *models.User) (string, error) {
	cfg := config.GetConfig()

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.JWT.TTL) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
