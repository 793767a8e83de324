package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	paystackDefaultBaseURL = "https://api.paystack.co"
	paystackDefaultTimeout = 15 * time.Second
)

type PaystackDriver struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewPaystackDriver(cfg GatewayConfig) *PaystackDriver {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = paystackDefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = paystackDefaultTimeout
	}
	return &PaystackDriver{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status          string      `json:"status"`
		ID              json.Number `json:"id"`
		Reference       string      `json:"reference"`
		Amount          float64     `json:"amount"`
		Currency        string      `json:"currency"`
		GatewayResponse string      `json:"gateway_response"`
	} `json:"data"`
}

// Verify calls Paystack's transaction verification endpoint. Amounts come
// back from Paystack in the minor unit (pesewas/kobo) and are converted to
// the major currency unit here.
func (d *PaystackDriver) Verify(ctx context.Context, reference string, options map[string]string) VerificationResult {
	if d.secretKey == "" {
		return Failed(reference, "missing Paystack secret key (PAYVIA_PAYSTACK_SECRET_KEY)")
	}

	verifyURL := options["verify_url"]
	if verifyURL == "" {
		verifyURL = d.baseURL + "/transaction/verify/" + url.PathEscape(reference)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return Failed(reference, fmt.Sprintf("Paystack verification request failed: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+d.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Failed(reference, fmt.Sprintf("Paystack verification request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(reference, fmt.Sprintf("Paystack verification request failed: %v", err))
	}

	var decoded paystackVerifyResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Failed(reference, fmt.Sprintf("Paystack verification response malformed: %v", err))
	}

	// Prefer the transaction-level gateway_response over the generic
	// top-level API message.
	message := decoded.Data.GatewayResponse
	if message == "" {
		message = decoded.Message
	}

	confirmedRef := decoded.Data.Reference
	if confirmedRef == "" {
		confirmedRef = reference
	}

	if !decoded.Status || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if message == "" {
			message = "Paystack verification returned error"
		}
		return VerificationResult{
			Status:    StatusFailed,
			Reference: confirmedRef,
			Message:   message,
			Raw:       raw,
		}
	}

	status := decoded.Data.Status
	if status == "" {
		status = StatusSuccess
	}
	currency := decoded.Data.Currency
	if currency == "" {
		currency = "GHS"
	}

	return VerificationResult{
		Status:     status,
		ProviderID: decoded.Data.ID.String(),
		Reference:  confirmedRef,
		Amount:     decoded.Data.Amount / 100.0,
		Currency:   currency,
		Message:    message,
		Raw:        raw,
	}
}
