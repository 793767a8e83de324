package gateway

import (
	"encoding/json"
	"strings"
)

// Enricher extracts gateway-specific facts from a raw verification payload
// into a metadata fragment. Extractors only emit keys that are actually
// present and non-empty in the payload, so merging a fragment can never
// clobber caller-supplied metadata with missing data. An extractor must not
// fail: an unparseable payload simply yields no fragment.
type Enricher func(raw json.RawMessage) map[string]any

var enrichers = map[string]Enricher{
	"paystack": paystackEnricher,
}

// EnricherFor returns the metadata extractor registered for a gateway name.
// Gateways without structured raw payloads have no extractor.
func EnricherFor(name string) (Enricher, bool) {
	e, ok := enrichers[name]
	return e, ok
}

func paystackEnricher(raw json.RawMessage) map[string]any {
	var decoded struct {
		Data struct {
			Channel  string `json:"channel"`
			Customer struct {
				Email string `json:"email"`
			} `json:"customer"`
			Authorization struct {
				Last4 string `json:"last4"`
				Brand string `json:"brand"`
				Bank  string `json:"bank"`
			} `json:"authorization"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	extra := make(map[string]any)
	if decoded.Data.Customer.Email != "" {
		extra["customer_email"] = decoded.Data.Customer.Email
	}
	if decoded.Data.Authorization.Last4 != "" {
		extra["card_last4"] = decoded.Data.Authorization.Last4
	}
	if brand := strings.TrimSpace(decoded.Data.Authorization.Brand); brand != "" {
		extra["card_brand"] = brand
	}
	if decoded.Data.Authorization.Bank != "" {
		extra["card_bank"] = decoded.Data.Authorization.Bank
	}
	if decoded.Data.Channel != "" {
		extra["channel"] = decoded.Data.Channel
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
