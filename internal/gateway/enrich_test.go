package gateway

import (
	"encoding/json"
	"testing"
)

func TestPaystackEnricher_ExtractsPresentFields(t *testing.T) {
	raw := json.RawMessage(`{
		"status": true,
		"data": {
			"channel": "card",
			"customer": {"email": "payer@example.com"},
			"authorization": {"last4": "4081", "brand": " visa ", "bank": "TEST BANK"}
		}
	}`)

	extra := paystackEnricher(raw)

	want := map[string]any{
		"customer_email": "payer@example.com",
		"card_last4":     "4081",
		"card_brand":     "visa",
		"card_bank":      "TEST BANK",
		"channel":        "card",
	}
	if len(extra) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(extra), extra)
	}
	for k, v := range want {
		if extra[k] != v {
			t.Errorf("key %s: expected %v, got %v", k, v, extra[k])
		}
	}
}

func TestPaystackEnricher_OnlyPresentKeys(t *testing.T) {
	raw := json.RawMessage(`{"data": {"channel": "mobile_money"}}`)

	extra := paystackEnricher(raw)

	if len(extra) != 1 || extra["channel"] != "mobile_money" {
		t.Errorf("expected only channel to be extracted, got %v", extra)
	}
}

func TestPaystackEnricher_EmptyPayload(t *testing.T) {
	if extra := paystackEnricher(json.RawMessage(`{}`)); extra != nil {
		t.Errorf("expected nil fragment for empty payload, got %v", extra)
	}
	if extra := paystackEnricher(json.RawMessage(`not json`)); extra != nil {
		t.Errorf("expected nil fragment for malformed payload, got %v", extra)
	}
}

func TestEnricherFor(t *testing.T) {
	if _, ok := EnricherFor("paystack"); !ok {
		t.Error("expected paystack to have an enricher")
	}
	if _, ok := EnricherFor("unknown"); ok {
		t.Error("expected no enricher for unknown gateways")
	}
}
