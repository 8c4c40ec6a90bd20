package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/2beens/mm2kbench/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * time.Hour
	sessionKeyPrefix = "mm2k-admin-session||"
	sessionsSetKey   = "mm2k-admin-sessions"
	nonceLength      = 24
)

var ErrWrongCode = errors.New("wrong admin code")

type Admin struct {
	CodeHash string
}

func sessionKey(nonce string) string {
	return sessionKeyPrefix + nonce
}

// Service issues admin tokens. Each token carries a nonce registered in redis
// with its creation time, so a token dies with its session even before exp.
type Service struct {
	admin       *Admin
	signer      *Signer
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for nonces (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	NowFunc        func() time.Time
}

func NewAuthService(
	admin *Admin,
	signer *Signer,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		admin:          admin,
		signer:         signer,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
	}
}

func (as *Service) TTL() time.Duration {
	return as.ttl
}

func (as *Service) Login(ctx context.Context, code string) (string, error) {
	if code == "" || !pkg.CheckPasswordHash(code, as.admin.CodeHash) {
		return "", ErrWrongCode
	}

	nonce, err := as.RandStringFunc(nonceLength)
	if err != nil {
		return "", err
	}

	now := as.NowFunc()
	token, err := as.signer.Sign(TokenPayload{
		Role:      RoleAdmin,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(as.ttl).UnixMilli(),
		Nonce:     nonce,
	})
	if err != nil {
		return "", err
	}

	cmdSet := as.redisClient.Set(ctx, sessionKey(nonce), now.Unix(), 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add nonce to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, sessionsSetKey, nonce)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout drops the session behind the token. It reports whether a live session was removed.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	payload, err := as.signer.Verify(token, as.NowFunc())
	if err != nil && !errors.Is(err, ErrTokenExpired) {
		return false, nil
	}
	if payload.Nonce == "" {
		return false, nil
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey(payload.Nonce))
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove nonce from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, sessionsSetKey, payload.Nonce)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, sessionsSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	nonces := cmd.Val()
	if len(nonces) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(nonces))
	now := as.NowFunc()
	var toRemove []string
	for _, nonce := range nonces {
		cmd := as.redisClient.Get(ctx, sessionKey(nonce))
		if errors.Is(cmd.Err(), redis.Nil) {
			// set entry without a session
			toRemove = append(toRemove, nonce)
			continue
		}
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean session %s: %s", nonce, err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
		if err != nil {
			log.Errorf("=> auth service, scan and clean session %s: %s", nonce, err)
			toRemove = append(toRemove, nonce)
			continue
		}

		if now.Sub(time.Unix(createdAtUnix, 0)) > as.ttl {
			toRemove = append(toRemove, nonce)
		}
	}

	for _, nonce := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKey(nonce)).Err(); err != nil {
			log.Errorf("=> auth service, clean session %s: %s", nonce, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, sessionsSetKey, nonce).Err(); err != nil {
			log.Errorf("=> auth service, clean session %s: %s", nonce, err)
			continue
		}
	}
	if len(toRemove) > 0 {
		log.Infof("=> auth service, cleaned %d admin sessions", len(toRemove))
	}
}
