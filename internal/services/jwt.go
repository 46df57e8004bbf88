package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spinbazar-backend/internal/config"
)

// Claims are the identity claims carried by both token kinds. Rotation
// re-mints from these, so wallet checks see the same identity across a
// session's lifetime.
type Claims struct {
	UserID   string `json:"uid"`
	UserName string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies the two token kinds with distinct HS256
// secrets. Access tokens are stateless; refresh tokens additionally carry a
// jti that the token service tracks server-side.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
	}
}

func (s *JWTService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *JWTService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *JWTService) SignAccess(userID, userName, role string) (string, error) {
	return s.sign(s.accessSecret, s.accessTTL, userID, userName, role)
}

// SignRefresh returns the signed refresh token and its jti, which the caller
// registers in the outstanding set.
func (s *JWTService) SignRefresh(userID, userName, role string) (string, string, error) {
	jti := uuid.NewString()
	token, err := s.signWithID(s.refreshSecret, s.refreshTTL, userID, userName, role, jti)
	return token, jti, err
}

func (s *JWTService) sign(secret []byte, ttl time.Duration, userID, userName, role string) (string, error) {
	return s.signWithID(secret, ttl, userID, userName, role, uuid.NewString())
}

func (s *JWTService) signWithID(secret []byte, ttl time.Duration, userID, userName, role, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		UserName: userName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

func (s *JWTService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.accessSecret)
}

func (s *JWTService) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *JWTService) verify(tokenString string, secret []byte) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
