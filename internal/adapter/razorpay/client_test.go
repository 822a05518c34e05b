package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
)

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := NewHTTPClient(baseURL, "key-id", "key-secret", time.Second, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func sign(secret, gatewayOrderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := NewHTTPClient("/relative", "id", "secret", time.Second, logger); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient(":://bad", "id", "secret", time.Second, logger); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key-id" || pass != "key-secret" {
			t.Error("expected basic auth with gateway credentials")
		}
		var req orderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Amount != 49900 {
			t.Errorf("expected amount in paise 49900, got %d", req.Amount)
		}
		if req.Receipt != "PD1" {
			t.Errorf("unexpected receipt %q", req.Receipt)
		}
		_ = json.NewEncoder(w).Encode(orderResponse{ID: "order_abc", Amount: req.Amount, Currency: "INR"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	order, err := client.CreateOrder(context.Background(), 499, "PD1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Ref != "order_abc" || order.Amount != 49900 || order.KeyID != "key-id" {
		t.Fatalf("unexpected gateway order %+v", order)
	}
}

func TestVerifyValidSignature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(paymentResponse{ID: "pay_123", Amount: 49900, Status: "captured", Method: "upi"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Verify(context.Background(), "order_abc", "pay_123", sign("key-secret", "order_abc", "pay_123"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Verified {
		t.Fatal("expected verified result")
	}
	if result.Amount != 499 {
		t.Fatalf("expected amount in rupees 499, got %v", result.Amount)
	}
	if result.Method != "upi" {
		t.Fatalf("unexpected method %q", result.Method)
	}
}

func TestVerifyInvalidSignatureSkipsGateway(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Verify(context.Background(), "order_abc", "pay_123", "bogus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verified {
		t.Fatal("expected unverified result")
	}
	if called {
		t.Fatal("gateway must not be queried for an invalid signature")
	}
}

func TestVerifyGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Verify(context.Background(), "order_abc", "pay_123", sign("key-secret", "order_abc", "pay_123"))
	if !domainErrors.IsAdapterUnavailable(err) {
		t.Fatalf("expected AdapterUnavailable, got %v", err)
	}
}

func TestVerifyUnreachableGateway(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.Verify(context.Background(), "order_abc", "pay_123", sign("key-secret", "order_abc", "pay_123"))
	if !domainErrors.IsAdapterUnavailable(err) {
		t.Fatalf("expected AdapterUnavailable, got %v", err)
	}
}

func TestRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_123/refund" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req refundRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Amount != 49900 {
			t.Errorf("expected refund amount 49900, got %d", req.Amount)
		}
		if req.Notes["reason"] != "order cancelled" {
			t.Errorf("unexpected reason %q", req.Notes["reason"])
		}
		_, _ = w.Write([]byte(`{"id":"rfnd_1","status":"processed"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.Refund(context.Background(), "pay_123", 499, "order cancelled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefundClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Refund(context.Background(), "pay_123", 499, "oops")
	if err == nil {
		t.Fatal("expected error")
	}
	if domainErrors.IsAdapterUnavailable(err) {
		t.Fatal("4xx must not be classified as downtime")
	}
}
