package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cartel47-backend/internal/config"
)

const (
	jwtIssuer        = "cartel47-backend"
	devJWTSecret     = "development-secret-change-me"
	defaultJWTExpiry = 7 * 24 * time.Hour
)

type Claims struct {
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress,omitempty"`
	IsAdmin       bool   `json:"isAdmin,omitempty"`

	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService falls back to a fixed development secret when JWT_SECRET
// is empty; config.Validate forbids that in production.
func NewJWTService(cfg *config.Config) *JWTService {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = devJWTSecret
	}

	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = defaultJWTExpiry
	}

	return &JWTService{secret: []byte(secret), expiry: expiry}
}

func (s *JWTService) GenerateToken(userID, walletAddress string, isAdmin bool) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		UserID:        userID,
		WalletAddress: walletAddress,
		IsAdmin:       isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *JWTService) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}

	return claims, nil
}
