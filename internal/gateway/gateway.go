package gateway

import (
	"context"
	"encoding/json"
)

// Normalized verification statuses. Provider-specific terminal states
// (e.g. Paystack "abandoned") are passed through verbatim.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Driver verifies a provider transaction reference against one external
// payment provider. A driver never fails for recoverable provider problems
// (timeout, connection refused, non-2xx, missing credential): those come
// back as a VerificationResult with StatusFailed and a descriptive message.
type Driver interface {
	Verify(ctx context.Context, reference string, options map[string]string) VerificationResult
}

// VerificationResult is the canonical, provider-agnostic outcome of a
// verification call. Amount is always in major currency units.
type VerificationResult struct {
	Status     string          `json:"status"`
	ProviderID string          `json:"id,omitempty"`
	Reference  string          `json:"reference"`
	Amount     float64         `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Message    string          `json:"message,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// Failed builds a failed VerificationResult for the given reference.
func Failed(reference, message string) VerificationResult {
	return VerificationResult{
		Status:    StatusFailed,
		Reference: reference,
		Message:   message,
	}
}
