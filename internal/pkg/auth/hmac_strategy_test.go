package auth

import (
	"testing"
	"time"
)

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	operatorID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if operatorID != 42 {
		t.Fatalf("expected operator 42, got %d", operatorID)
	}

	if strategy.Name() != "hmac" {
		t.Fatalf("unexpected strategy name %q", strategy.Name())
	}
}

func TestHMACStrategyRejectsGarbage(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"wrong shape", "YWJj"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := strategy.ParseToken(tc.token); err != ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategyRejectsForeignSignature(t *testing.T) {
	issuer := NewHMACStrategy("secret-a", Options{})
	verifier := NewHMACStrategy("secret-b", Options{})

	token, err := issuer.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestHMACStrategyExpiry(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	current := time.Unix(10_000, 0)
	strategy.now = func() time.Time { return current }

	token, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := strategy.ParseToken(token); err != nil {
		t.Fatalf("expected valid token before expiry, got %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := strategy.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}
