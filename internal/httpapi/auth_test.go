package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

func pinChecker(valid string) func(ctx context.Context, pin string) bool {
	return func(_ context.Context, pin string) bool {
		return pin == valid
	}
}

func TestUnlockIssuesValidToken(t *testing.T) {
	gate := NewAdminGate("test-secret", time.Hour, pinChecker("123456"))

	resp, err := gate.Unlock(context.Background(), domain.UnlockRequest{PIN: "123456"})
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if resp.AccessToken == "" || resp.ExpiresAt == "" {
		t.Fatalf("expected token and expiry, got %+v", resp)
	}

	if err := gate.ParseToken(resp.AccessToken); err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
}

func TestUnlockRejectsWrongPIN(t *testing.T) {
	gate := NewAdminGate("test-secret", time.Hour, pinChecker("123456"))

	if _, err := gate.Unlock(context.Background(), domain.UnlockRequest{PIN: "999999"}); err == nil {
		t.Fatalf("expected wrong pin to fail")
	}
	if _, err := gate.Unlock(context.Background(), domain.UnlockRequest{PIN: "  "}); err == nil {
		t.Fatalf("expected blank pin to fail")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAdminGate("secret-one", time.Hour, pinChecker("123456"))
	verifier := NewAdminGate("secret-two", time.Hour, pinChecker("123456"))

	resp, err := issuer.Unlock(context.Background(), domain.UnlockRequest{PIN: "123456"})
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	if err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token from a different secret to fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	gate := NewAdminGate("test-secret", time.Hour, pinChecker("123456"))

	expired, err := gate.sign(time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if err := gate.ParseToken(expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	gate := NewAdminGate("test-secret", time.Hour, pinChecker("123456"))

	if err := gate.ParseToken("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
	if err := gate.ParseToken(""); err == nil {
		t.Fatalf("expected empty token to fail")
	}
}
