package services

import (
	"context"
	"fmt"
	"time"

	"spinbazar-backend/internal/models"
)

// RefreshTokenRegistry tracks refresh tokens that have been issued but not
// yet redeemed or revoked. RedisService implements it, which keeps the set
// out of process memory: a restart does not log everyone out, and multiple
// instances share one registry.
type RefreshTokenRegistry interface {
	PutRefreshToken(ctx context.Context, jti, userID string, ttl time.Duration) error
	TakeRefreshToken(ctx context.Context, jti string) (bool, error)
	DeleteRefreshToken(ctx context.Context, jti string) error
}

// TokenService issues, rotates and revokes access/refresh token pairs.
type TokenService struct {
	jwt      *JWTService
	registry RefreshTokenRegistry
}

func NewTokenService(jwtService *JWTService, registry RefreshTokenRegistry) *TokenService {
	return &TokenService{jwt: jwtService, registry: registry}
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.jwt.RefreshTTL()
}

// IssuePair mints an access/refresh pair for the identity and registers the
// refresh token as outstanding.
func (s *TokenService) IssuePair(ctx context.Context, userID, userName, role string) (*models.TokenPair, error) {
	access, err := s.jwt.SignAccess(userID, userName, role)
	if err != nil {
		return nil, err
	}

	refresh, jti, err := s.jwt.SignRefresh(userID, userName, role)
	if err != nil {
		return nil, err
	}

	if err := s.registry.PutRefreshToken(ctx, jti, userID, s.jwt.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to register refresh token: %v", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate redeems a refresh token for a fresh pair. The token is verified
// first, then atomically removed from the registry; a token that was never
// issued, already rotated, or revoked fails with ErrRefreshReused. Only one
// of two concurrent rotations of the same token can win.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwt.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	taken, err := s.registry.TakeRefreshToken(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !taken {
		return nil, ErrRefreshReused
	}

	return s.IssuePair(ctx, claims.UserID, claims.UserName, claims.Role)
}

// Revoke drops a refresh token from the registry. Unknown or malformed
// tokens are ignored: logout never fails.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.registry.DeleteRefreshToken(ctx, claims.ID)
}

// VerifyAccess checks signature and expiry only. Access tokens are not
// individually revocable before they expire.
func (s *TokenService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.jwt.VerifyAccess(tokenString)
}
