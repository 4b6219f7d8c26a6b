package auth

import (
	"context"
	"testing"
	"time"
)

type memSessions struct {
	m map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{m: make(map[string]string)}
}

func (s *memSessions) Create(ctx context.Context, sid, userID string, ttl time.Duration) error {
	s.m[sid] = userID
	return nil
}

func (s *memSessions) Get(ctx context.Context, sid string) (string, error) {
	return s.m[sid], nil
}

func (s *memSessions) Delete(ctx context.Context, sid string) error {
	delete(s.m, sid)
	return nil
}

func TestIssueVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour, newMemSessions())

	tok, err := tokens.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	userID, err := tokens.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Second, newMemSessions())

	tok, err := tokens.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	sessions := newMemSessions()
	issuer := NewTokens("secret-a", time.Hour, sessions)
	verifier := NewTokens("secret-b", time.Hour, sessions)

	tok, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected signature mismatch to fail verification")
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour, newMemSessions())
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(context.Background(), tok); err == nil {
			t.Fatalf("expected %q to fail verification", tok)
		}
	}
}

func TestRevokedTokenFailsVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour, newMemSessions())

	tok, err := tokens.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := tokens.Revoke(context.Background(), tok); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := tokens.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected revoked token to fail verification")
	}
}
