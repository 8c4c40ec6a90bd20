package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	signer      *Signer
	ttl         time.Duration
	redisClient *redis.Client
	NowFunc     func() time.Time
}

func NewLoginChecker(signer *Signer, ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		signer:      signer,
		ttl:         ttl,
		redisClient: redisClient,
		NowFunc:     time.Now,
	}
}

// IsAdmin accepts a token with a valid signature, an admin role, no expiry
// in the past and a live redis session
func (lc *LoginChecker) IsAdmin(ctx context.Context, token string) (bool, error) {
	now := lc.NowFunc()
	payload, err := lc.signer.Verify(token, now)
	if err != nil {
		return false, nil
	}
	if payload.Role != RoleAdmin || payload.Nonce == "" {
		return false, nil
	}

	cmd := lc.redisClient.Get(ctx, sessionKey(payload.Nonce))
	if errors.Is(cmd.Err(), redis.Nil) {
		return false, nil
	}
	if err := cmd.Err(); err != nil {
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
	if err != nil {
		return false, err
	}

	if now.Sub(time.Unix(createdAtUnix, 0)) > lc.ttl {
		return false, nil
	}
	return true, nil
}
