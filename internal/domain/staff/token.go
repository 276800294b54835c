package staff

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"assettrack/internal/core/session"
)

// TokenConfig holds staffSession token configuration.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// DefaultTokenConfig returns default token configuration.
func DefaultTokenConfig(secret string) TokenConfig {
	return TokenConfig{
		Secret: secret,
		Issuer: "assettrack",
		TTL:    30 * 24 * time.Hour,
	}
}

// Claims carries the three logical session fields in signed form. The
// plaintext cookies stay authoritative for the routing gate; this token
// backs server-side validation on mutating endpoints.
type Claims struct {
	jwt.RegisteredClaims
	StaffCode string `json:"cod"`
	Role      string `json:"rol"`
	Dept      string `json:"dep"`
	LinkUser  string `json:"lnk,omitempty"`
}

// TokenService signs and verifies staffSession tokens.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service.
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{config: config}
}

// Generate signs a session token for the given actor.
func (s *TokenService) Generate(staffCode string, role session.Role, dept, linkUser string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   staffCode,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		StaffCode: staffCode,
		Role:      string(role),
		Dept:      dept,
		LinkUser:  linkUser,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate verifies a token and returns the session it encodes.
func (s *TokenService) Validate(tokenString string) (*session.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &session.Session{
		LinkUser:   claims.LinkUser,
		Role:       session.Role(claims.Role),
		Department: claims.Dept,
		StaffCode:  claims.StaffCode,
	}, nil
}
