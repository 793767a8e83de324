package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/glueful/payvia/internal/gateway"
	"github.com/glueful/payvia/internal/store"
)

// Resolver resolves a gateway name to a verification driver.
type Resolver interface {
	Resolve(name string) (gateway.Driver, error)
}

// ConfirmContext carries the optional caller-supplied context for one
// confirmation: a user reference, a polymorphic link to an arbitrary domain
// entity, base metadata, and opaque driver options.
type ConfirmContext struct {
	UserRef     string
	PayableType string
	PayableID   string
	Metadata    map[string]any
	Options     map[string]string
}

// ConfirmOutcome is the canonical response contract for a confirmation.
// Verification exposes the full normalized gateway result for clients that
// want more than the ledger projection.
type ConfirmOutcome struct {
	Status       string                     `json:"payment_status"`
	Gateway      string                     `json:"gateway"`
	Reference    string                     `json:"reference"`
	Amount       float64                    `json:"amount"`
	Currency     string                     `json:"currency"`
	Message      string                     `json:"message,omitempty"`
	Verification gateway.VerificationResult `json:"verification"`
}

type Config struct {
	DefaultGateway  string
	StoreRawPayload bool
}

// Engine reconciles provider verification outcomes against the local
// payment ledger.
type Engine struct {
	registry Resolver
	store    store.Storage
	cfg      Config
	logger   *zap.SugaredLogger
}

func NewEngine(registry Resolver, st store.Storage, cfg Config, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		registry: registry,
		store:    st,
		cfg:      cfg,
		logger:   logger,
	}
}

// Confirm verifies a transaction reference with the named gateway (falling
// back to the configured default) and upserts the authoritative ledger
// record for it. Repeated confirmations of one reference always fold into
// the same record.
func (e *Engine) Confirm(ctx context.Context, reference, gatewayName string, cc ConfirmContext) (*ConfirmOutcome, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}

	name := gatewayName
	if name == "" {
		name = e.cfg.DefaultGateway
	}

	drv, err := e.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	verification := drv.Verify(ctx, reference, cc.Options)

	metadata := make(map[string]any, len(cc.Metadata))
	for k, v := range cc.Metadata {
		metadata[k] = v
	}
	if enrich, ok := gateway.EnricherFor(name); ok && len(verification.Raw) > 0 {
		for k, v := range enrich(verification.Raw) {
			metadata[k] = v
		}
	}

	record := &store.Payment{
		UserRef:              optional(cc.UserRef),
		PayableType:          optional(cc.PayableType),
		PayableID:            optional(cc.PayableID),
		Gateway:              name,
		GatewayTransactionID: optional(verification.ProviderID),
		Reference:            reference,
		Amount:               verification.Amount,
		Currency:             verification.Currency,
		Status:               verification.Status,
		Message:              optional(verification.Message),
		Metadata:             metadata,
	}

	if e.cfg.StoreRawPayload {
		rawPayload, err := json.Marshal(verification)
		if err != nil {
			return nil, fmt.Errorf("encode verification payload: %w", err)
		}
		record.RawPayload = rawPayload
	}

	if _, err := e.store.Payments.Upsert(ctx, record); err != nil {
		return nil, err
	}

	e.logger.Infow("payment confirmed",
		"reference", reference,
		"gateway", name,
		"status", verification.Status,
	)

	return &ConfirmOutcome{
		Status:       verification.Status,
		Gateway:      name,
		Reference:    reference,
		Amount:       verification.Amount,
		Currency:     verification.Currency,
		Message:      verification.Message,
		Verification: verification,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
