package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: missing, malformed,
// bad signature, expired, or revoked.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload of a bearer token. The jti doubles as the
// session id in the SessionStore.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed bearer tokens backed by server-side
// sessions.
type Tokens struct {
	secret   []byte
	ttl      time.Duration
	sessions SessionStore
}

func NewTokens(secret string, ttl time.Duration, sessions SessionStore) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, sessions: sessions}
}

// Issue signs a new token for userID and records its session.
func (t *Tokens) Issue(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}
	if err := t.sessions.Create(ctx, sid, userID, t.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and expiry, then requires the session to
// still exist and match the signed user id. Returns the user id.
func (t *Tokens) Verify(ctx context.Context, tokenStr string) (string, error) {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, err := t.sessions.Get(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if userID == "" || userID != claims.UserID {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Revoke deletes the token's session so later Verify calls fail.
func (t *Tokens) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return ErrInvalidToken
	}
	return t.sessions.Delete(ctx, claims.ID)
}

func (t *Tokens) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
