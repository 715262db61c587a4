package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/voozea/voozea/internal/config"
)

const (
	keyClaimSubmit  = "claim:submit:user:%d"
	keySearchEntity = "search:entity:%s"
	keyClaimLock    = "claim:lock:business:%d"

	claimLockTTL = 10 * time.Second
)

// ActionLimiter throttles abuse-prone write and search paths. A nil limiter
// allows everything, which is how the server runs when Redis is not configured.
type ActionLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	claimRate   float64
	claimBurst  int
	searchRate  float64
	searchBurst int
}

func NewActionLimiter(cfg config.Config) (*ActionLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ClaimRate <= 0 || limitCfg.ClaimBurst <= 0 {
		return nil, errors.New("claim rate limit must be positive")
	}
	if limitCfg.SearchRate <= 0 || limitCfg.SearchBurst <= 0 {
		return nil, errors.New("search rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &ActionLimiter{
		enabled:     true,
		bucket:      NewTokenBucket(client),
		locker:      NewLocker(client),
		claimRate:   limitCfg.ClaimRate,
		claimBurst:  limitCfg.ClaimBurst,
		searchRate:  limitCfg.SearchRate,
		searchBurst: limitCfg.SearchBurst,
	}, nil
}

func (l *ActionLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowClaim limits claim submissions per user.
func (l *ActionLimiter) AllowClaim(ctx context.Context, userID int64) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyClaimSubmit, userID), l.claimRate, l.claimBurst)
}

// AllowSearch limits entity searches per principal. Anonymous callers share
// a bucket keyed by client address.
func (l *ActionLimiter) AllowSearch(ctx context.Context, principal string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySearchEntity, strings.TrimSpace(principal)), l.searchRate, l.searchBurst)
}

// TryLockClaim serializes claim review for a single business.
func (l *ActionLimiter) TryLockClaim(ctx context.Context, businessID int64) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyClaimLock, businessID), claimLockTTL)
}

// ReleaseClaim releases a claim review lock.
func (l *ActionLimiter) ReleaseClaim(ctx context.Context, businessID int64, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyClaimLock, businessID), token)
}
