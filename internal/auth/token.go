package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const RoleAdmin = "admin"

var (
	ErrMissingSecret = errors.New("token secret missing")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
)

// TokenPayload is the signed part of the admin cookie, times are unix millis
type TokenPayload struct {
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Nonce     string `json:"nonce"`
}

// Signer produces and checks base64url(payload).base64url(hmac-sha256) tokens
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

func (s *Signer) mac(data string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func (s *Signer) Sign(payload TokenPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}
	data := base64.RawURLEncoding.EncodeToString(raw)
	sig := base64.RawURLEncoding.EncodeToString(s.mac(data))
	return data + "." + sig, nil
}

// Verify checks the signature and the expiry. A payload without exp never expires.
func (s *Signer) Verify(token string, now time.Time) (TokenPayload, error) {
	data, sig, ok := strings.Cut(token, ".")
	if !ok || data == "" || sig == "" {
		return TokenPayload{}, ErrInvalidToken
	}

	gotSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return TokenPayload{}, ErrInvalidToken
	}
	if !hmac.Equal(gotSig, s.mac(data)) {
		return TokenPayload{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return TokenPayload{}, ErrInvalidToken
	}
	var payload TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return TokenPayload{}, ErrInvalidToken
	}

	if payload.ExpiresAt > 0 && now.UnixMilli() > payload.ExpiresAt {
		return payload, ErrTokenExpired
	}
	return payload, nil
}
