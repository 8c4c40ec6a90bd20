package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	IsAdmin(ctx context.Context, token string) (bool, error)
}

// LoginTestChecker accepts the tokens listed in AdminTokens, for dev setups without redis
type LoginTestChecker struct {
	AdminTokens map[string]bool
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		AdminTokens: map[string]bool{},
	}
}

func (c *LoginTestChecker) IsAdmin(_ context.Context, token string) (bool, error) {
	return c.AdminTokens[token], nil
}
