package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newPaystackServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_xyz" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestPaystackVerify_Success(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{
		"status": true,
		"message": "Verification successful",
		"data": {
			"status": "success",
			"id": 4099260516,
			"reference": "ref-1",
			"amount": 500000,
			"currency": "GHS",
			"gateway_response": "Approved",
			"channel": "card"
		}
	}`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-1", nil)

	if res.Status != "success" {
		t.Fatalf("expected status success, got %q (message: %s)", res.Status, res.Message)
	}
	if res.Amount != 5000.00 {
		t.Errorf("expected amount 5000.00 major units, got %v", res.Amount)
	}
	if res.Currency != "GHS" {
		t.Errorf("expected currency GHS, got %q", res.Currency)
	}
	if res.Reference != "ref-1" {
		t.Errorf("expected reference ref-1, got %q", res.Reference)
	}
	if res.ProviderID != "4099260516" {
		t.Errorf("expected provider id 4099260516, got %q", res.ProviderID)
	}
	if res.Message != "Approved" {
		t.Errorf("expected gateway_response to win message precedence, got %q", res.Message)
	}
	if len(res.Raw) == 0 {
		t.Error("expected raw payload to be captured")
	}
}

func TestPaystackVerify_AmountScale(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{
		"status": true,
		"data": {"status": "success", "reference": "ref-2", "amount": 150000, "currency": "NGN"}
	}`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-2", nil)

	if res.Amount != 1500.00 {
		t.Errorf("expected 150000 minor units to become 1500.00, got %v", res.Amount)
	}
}

func TestPaystackVerify_ProviderReportedFailure(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{
		"status": false,
		"message": "Transaction reference not found"
	}`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "nope", nil)

	if res.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", res.Status)
	}
	if res.Message != "Transaction reference not found" {
		t.Errorf("expected top-level message fallback, got %q", res.Message)
	}
}

func TestPaystackVerify_Non2xx(t *testing.T) {
	srv := newPaystackServer(t, http.StatusUnauthorized, `{"status": true, "data": {"status": "success"}}`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-3", nil)

	if res.Status != StatusFailed {
		t.Fatalf("expected non-2xx to be failed regardless of body, got %q", res.Status)
	}
}

func TestPaystackVerify_DefaultFailureMessage(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{"status": false}`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-4", nil)

	if res.Message != "Paystack verification returned error" {
		t.Errorf("expected default failure message, got %q", res.Message)
	}
}

func TestPaystackVerify_MissingSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made without a secret key")
	}))
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-5", nil)

	if res.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", res.Status)
	}
	if !strings.Contains(res.Message, "PAYVIA_PAYSTACK_SECRET_KEY") {
		t.Errorf("expected message to name the missing setting, got %q", res.Message)
	}
}

func TestPaystackVerify_TransportError(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{}`)
	srv.Close() // connection refused from here on

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-6", nil)

	if res.Status != StatusFailed {
		t.Fatalf("expected transport error to be a failed result, got %q", res.Status)
	}
	if res.Message == "" {
		t.Error("expected non-empty failure message")
	}
	if res.Reference != "ref-6" {
		t.Errorf("expected input reference echoed back, got %q", res.Reference)
	}
}

func TestPaystackVerify_MalformedBody(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `<html>not json</html>`)
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	res := d.Verify(context.Background(), "ref-7", nil)

	if res.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", res.Status)
	}
}

func TestPaystackVerify_VerifyURLOverride(t *testing.T) {
	var hitPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitPath = r.URL.Path
		w.Write([]byte(`{"status": true, "data": {"status": "success", "reference": "ref-8", "amount": 100}}`))
	}))
	defer srv.Close()

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: "https://unreachable.invalid"})
	res := d.Verify(context.Background(), "ref-8", map[string]string{
		"verify_url": srv.URL + "/custom/verify/ref-8",
	})

	if res.Status != "success" {
		t.Fatalf("expected success via override URL, got %q (%s)", res.Status, res.Message)
	}
	if hitPath != "/custom/verify/ref-8" {
		t.Errorf("expected override path to be used, got %q", hitPath)
	}
}

func TestPaystackVerify_ReferenceEscaping(t *testing.T) {
	var hitPath string
	srv := newPaystackServer(t, http.StatusOK, `{"status": true, "data": {"status": "success"}}`)
	srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitPath = r.URL.EscapedPath()
		w.Write([]byte(`{"status": true, "data": {"status": "success"}}`))
	})

	d := NewPaystackDriver(GatewayConfig{SecretKey: "sk_test_xyz", BaseURL: srv.URL})
	d.Verify(context.Background(), "ref/with space", nil)
	srv.Close()

	if !strings.HasSuffix(hitPath, "/transaction/verify/ref%2Fwith%20space") {
		t.Errorf("expected url-encoded reference in path, got %q", hitPath)
	}
}
