package gateway

import (
	"errors"
	"testing"
)

func testConfig() Config {
	return Config{
		DefaultGateway: "paystack",
		Gateways: map[string]GatewayConfig{
			"paystack": {Enabled: true, Driver: "paystack", SecretKey: "sk_test_xyz"},
			"stripe":   {Enabled: true, Driver: "stripe", SecretKey: "sk_stripe"},
			"legacy":   {Enabled: false, Driver: "paystack"},
		},
	}
}

func TestRegistryResolve_UnknownGateway(t *testing.T) {
	r := NewRegistry(testConfig())

	_, err := r.Resolve("unknown")
	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("expected ErrGatewayNotConfigured, got %v", err)
	}
}

func TestRegistryResolve_DisabledGateway(t *testing.T) {
	r := NewRegistry(testConfig())

	_, err := r.Resolve("legacy")
	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("expected disabled gateway to resolve as not configured, got %v", err)
	}
}

func TestRegistryResolve_DriverNotRegistered(t *testing.T) {
	r := NewRegistry(testConfig())

	_, err := r.Resolve("stripe")
	if !errors.Is(err, ErrDriverNotRegistered) {
		t.Fatalf("expected ErrDriverNotRegistered, got %v", err)
	}
}

func TestRegistryResolve_CachesInstances(t *testing.T) {
	r := NewRegistry(testConfig())

	first, err := r.Resolve("paystack")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := r.Resolve("paystack")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first != second {
		t.Error("expected the same driver instance from the cache")
	}
}

func TestRegistryResolve_DriverKeyDefaultsToName(t *testing.T) {
	r := NewRegistry(Config{
		Gateways: map[string]GatewayConfig{
			"paystack": {Enabled: true, SecretKey: "sk_test_xyz"},
		},
	})

	if _, err := r.Resolve("paystack"); err != nil {
		t.Fatalf("expected empty driver key to fall back to gateway name, got %v", err)
	}
}
