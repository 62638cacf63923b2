package repository

import (
	"context"
	"time"

	"foodgram-backend/pkg/cache"
)

const revokedKeyPrefix = "revoked:"

// TokenRevocationStore lưu jti đã logout cho tới khi token hết hạn.
// Implement middleware.RevocationChecker
type TokenRevocationStore struct {
	cache cache.Cache
	now   func() time.Time
}

func NewTokenRevocationStore(c cache.Cache) *TokenRevocationStore {
	return &TokenRevocationStore{cache: c, now: time.Now}
}

// Revoke: token đã hết hạn thì không cần lưu
func (s *TokenRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, true, ttl)
}

func (s *TokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedKeyPrefix+tokenID)
}
