package auth

import (
	"testing"
	"time"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("test-secret", time.Hour, "payvia", "payvia")

	token, err := a.GenerateToken("checkout-service")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parsed, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		t.Fatalf("get subject: %v", err)
	}
	if sub != "checkout-service" {
		t.Errorf("expected subject checkout-service, got %q", sub)
	}
}

func TestJWTAuthenticator_WrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("test-secret", time.Hour, "payvia", "payvia")
	other := NewJWTAuthenticator("other-secret", time.Hour, "payvia", "payvia")

	token, err := a.GenerateToken("checkout-service")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}
