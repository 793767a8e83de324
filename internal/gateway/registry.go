package gateway

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrGatewayNotConfigured = errors.New("gateway not configured or disabled")
	ErrDriverNotRegistered  = errors.New("no driver registered")
)

// GatewayConfig holds the read-only settings for one configured gateway.
type GatewayConfig struct {
	Enabled   bool
	Driver    string // driver key; defaults to the gateway name when empty
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Config is the process-wide payment gateway configuration. It is built
// once at startup and never mutated afterwards.
type Config struct {
	DefaultGateway  string
	StoreRawPayload bool
	Gateways        map[string]GatewayConfig
}

// driverFactories is the closed table of known driver implementations.
// Adding a provider means adding one entry here plus its enricher.
var driverFactories = map[string]func(cfg GatewayConfig) Driver{
	"paystack": func(cfg GatewayConfig) Driver { return NewPaystackDriver(cfg) },
}

// Registry resolves gateway names to configured driver instances. Instances
// are constructed lazily on first use and cached for the registry lifetime.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	resolved map[string]Driver
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		resolved: make(map[string]Driver),
	}
}

// Resolve returns the driver instance for name. It fails with
// ErrGatewayNotConfigured when the name is absent from configuration or
// disabled, and ErrDriverNotRegistered when the configured driver key has
// no bound implementation.
func (r *Registry) Resolve(name string) (Driver, error) {
	r.mu.RLock()
	drv, ok := r.resolved[name]
	r.mu.RUnlock()
	if ok {
		return drv, nil
	}

	gc, ok := r.cfg.Gateways[name]
	if !ok || !gc.Enabled {
		return nil, fmt.Errorf("gateway %q: %w", name, ErrGatewayNotConfigured)
	}

	driverKey := gc.Driver
	if driverKey == "" {
		driverKey = name
	}

	factory, ok := driverFactories[driverKey]
	if !ok {
		return nil, fmt.Errorf("driver %q: %w", driverKey, ErrDriverNotRegistered)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if drv, ok := r.resolved[name]; ok {
		return drv, nil
	}
	drv = factory(gc)
	r.resolved[name] = drv
	return drv, nil
}
