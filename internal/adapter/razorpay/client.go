package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
)

const providerName = "razorpay"

// Client exposes payment gateway operations consumed by the reconciler.
type Client interface {
	CreateOrder(ctx context.Context, amount float64, orderRef string) (*model.GatewayOrder, error)
	Verify(ctx context.Context, gatewayOrderRef, paymentRef, signature string) (*model.PaymentVerification, error)
	Refund(ctx context.Context, paymentRef string, amount float64, reason string) error
}

// HTTPClient implements Client via the Razorpay REST API.
type HTTPClient struct {
	baseURL    *url.URL
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTP gateway client with a bounded timeout.
func NewHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse razorpay url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("razorpay url must be absolute")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type paymentResponse struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
	Method string  `json:"method"`
}

type refundRequest struct {
	Amount int64             `json:"amount,omitempty"`
	Notes  map[string]string `json:"notes,omitempty"`
}

// CreateOrder registers a gateway order for online checkout. Amount is in
// rupees and converted to paise on the wire.
func (c *HTTPClient) CreateOrder(ctx context.Context, amount float64, orderRef string) (*model.GatewayOrder, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   int64(amount * 100),
		Currency: "INR",
		Receipt:  orderRef,
		Notes:    map[string]string{"order_ref": orderRef},
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/orders", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var data orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &model.GatewayOrder{Ref: data.ID, Amount: data.Amount, Currency: data.Currency, KeyID: c.keyID}, nil
}

// Verify checks the payment proof signature and, when it matches, fetches
// the payment facts from the gateway. An invalid signature is reported via
// Verified=false, not an error; gateway downtime is AdapterUnavailable.
func (c *HTTPClient) Verify(ctx context.Context, gatewayOrderRef, paymentRef, signature string) (*model.PaymentVerification, error) {
	if !c.signatureValid(gatewayOrderRef, paymentRef, signature) {
		return &model.PaymentVerification{Verified: false, PaymentRef: paymentRef}, nil
	}

	resp, err := c.do(ctx, http.MethodGet, path.Join("/payments", paymentRef), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var data paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &model.PaymentVerification{
		Verified:   true,
		PaymentRef: paymentRef,
		Amount:     data.Amount / 100,
		Method:     data.Method,
	}, nil
}

// Refund asks the gateway to return the captured amount. Zero amount means
// full refund.
func (c *HTTPClient) Refund(ctx context.Context, paymentRef string, amount float64, reason string) error {
	req := refundRequest{Notes: map[string]string{"reason": reason}}
	if amount > 0 {
		req.Amount = int64(amount * 100)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, path.Join("/payments", paymentRef, "refund"), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, http.StatusOK)
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, body []byte) (*http.Response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainErrors.NewAdapterUnavailable(providerName, err)
	}
	return resp, nil
}

func (c *HTTPClient) checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("razorpay request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
	err := fmt.Errorf("razorpay error: %s", resp.Status)
	if resp.StatusCode >= http.StatusInternalServerError {
		return domainErrors.NewAdapterUnavailable(providerName, err)
	}
	return err
}

// signatureValid recomputes the HMAC-SHA256 of "orderRef|paymentRef" with
// the key secret and compares it to the submitted signature.
func (c *HTTPClient) signatureValid(gatewayOrderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
