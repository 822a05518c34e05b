package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
)

const (
	providerName = "shiprocket"

	// Courier preferred when serviceable; falls back to the cheapest quote.
	preferredCourier = "amazon shipping surface"

	tokenLifetime = 7 * 24 * time.Hour
)

// TooManyRequestsError represents a rate limiting signal from the provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes shipment provider operations consumed by the reconciler
// and the checkout quote path.
type Client interface {
	Quote(ctx context.Context, pincode string, weight, codAmount float64) (*model.ShippingQuote, error)
	CreateShipment(ctx context.Context, order *model.Order) (*model.ShipmentHandle, error)
	Track(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error)
	CancelShipment(ctx context.Context, shipmentRef string) error
}

// Options carries warehouse identity used in shipment payloads.
type Options struct {
	PickupLocation   string
	WarehousePincode string
	ChannelID        string
}

// HTTPClient implements Client via the Shiprocket external API. The auth
// token is cached until its expiry and refreshed lazily.
type HTTPClient struct {
	baseURL    *url.URL
	email      string
	password   string
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewHTTPClient creates an HTTP shipment provider client with a bounded timeout.
func NewHTTPClient(baseURL, email, password string, opts Options, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse shiprocket url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("shiprocket url must be absolute")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:  parsed,
		email:    email,
		password: password,
		opts:     opts,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

type courierCompany struct {
	CourierName   string   `json:"courier_name"`
	Rate          *float64 `json:"rate"`
	FreightCharge *float64 `json:"freight_charge"`
	CODCharges    *float64 `json:"cod_charges"`
	COD           int      `json:"cod"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ETD           string   `json:"etd"`
}

type serviceabilityResponse struct {
	Data struct {
		AvailableCourierCompanies []courierCompany `json:"available_courier_companies"`
	} `json:"data"`
}

type shipmentItem struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice string `json:"selling_price"`
}

type shipmentRequest struct {
	OrderID           string         `json:"order_id"`
	OrderDate         string         `json:"order_date"`
	PickupLocation    string         `json:"pickup_location"`
	ChannelID         string         `json:"channel_id"`
	BillingName       string         `json:"billing_customer_name"`
	BillingLastName   string         `json:"billing_last_name"`
	BillingAddress    string         `json:"billing_address"`
	BillingCity       string         `json:"billing_city"`
	BillingPincode    string         `json:"billing_pincode"`
	BillingState      string         `json:"billing_state"`
	BillingCountry    string         `json:"billing_country"`
	BillingEmail      string         `json:"billing_email"`
	BillingPhone      string         `json:"billing_phone"`
	ShippingIsBilling bool           `json:"shipping_is_billing"`
	OrderItems        []shipmentItem `json:"order_items"`
	PaymentMethod     string         `json:"payment_method"`
	ShippingCharges   string         `json:"shipping_charges"`
	SubTotal          string         `json:"sub_total"`
	Length            int            `json:"length"`
	Breadth           int            `json:"breadth"`
	Height            int            `json:"height"`
	Weight            float64        `json:"weight"`
}

type shipmentResponse struct {
	OrderID     json.Number `json:"order_id"`
	ShipmentID  json.Number `json:"shipment_id"`
	AWBCode     string      `json:"awb_code"`
	CourierName string      `json:"courier_name"`
}

type trackResponse struct {
	TrackingData struct {
		ShipmentStatus string `json:"shipment_status"`
		ShipmentTrack  []struct {
			Location string `json:"location"`
			Activity string `json:"activity"`
			Date     string `json:"date"`
		} `json:"shipment_track"`
	} `json:"tracking_data"`
}

// Quote asks the provider which couriers can serve the destination and
// returns the preferred (or cheapest) one as a shipping quote.
func (c *HTTPClient) Quote(ctx context.Context, pincode string, weight, codAmount float64) (*model.ShippingQuote, error) {
	params := url.Values{}
	params.Set("pickup_postcode", c.opts.WarehousePincode)
	params.Set("delivery_postcode", pincode)
	params.Set("weight", strconv.FormatFloat(weight, 'f', -1, 64))
	if codAmount > 0 {
		params.Set("cod", "1")
	} else {
		params.Set("cod", "0")
	}

	resp, err := c.do(ctx, http.MethodGet, "/courier/serviceability", params, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var data serviceabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	couriers := data.Data.AvailableCourierCompanies
	if len(couriers) == 0 {
		return &model.ShippingQuote{Serviceable: false, Pincode: pincode}, nil
	}

	selected := pickCourier(couriers)
	quote := &model.ShippingQuote{
		Serviceable:    true,
		Pincode:        pincode,
		City:           selected.City,
		State:          selected.State,
		CODAvailable:   selected.COD == 1,
		ShippingCharge: courierRate(selected),
		EstimatedDays:  selected.ETD,
		CourierName:    selected.CourierName,
	}
	if codAmount > 0 && selected.CODCharges != nil {
		quote.CODCharge = *selected.CODCharges
	}
	quote.TotalCharge = quote.ShippingCharge + quote.CODCharge
	return quote, nil
}

// CreateShipment registers the order with the provider and returns the
// shipment handle used for tracking.
func (c *HTTPClient) CreateShipment(ctx context.Context, order *model.Order) (*model.ShipmentHandle, error) {
	items := make([]shipmentItem, 0, len(order.Items))
	weight := 0.0
	for _, item := range order.Items {
		items = append(items, shipmentItem{
			Name:         item.ProductName,
			SKU:          fmt.Sprintf("PROD%03d", item.ProductID),
			Units:        item.Quantity,
			SellingPrice: strconv.FormatFloat(item.Price, 'f', 2, 64),
		})
		weight += float64(item.Quantity) // 1kg per unit
	}

	paymentMethod := "Prepaid"
	if order.PaymentStatus == model.PaymentStatusCOD {
		paymentMethod = "COD"
	}

	payload := shipmentRequest{
		OrderID:           order.Ref,
		OrderDate:         time.Now().Format("2006-01-02 15:04"),
		PickupLocation:    c.opts.PickupLocation,
		ChannelID:         c.opts.ChannelID,
		BillingName:       order.Address.Name,
		BillingAddress:    order.Address.Line,
		BillingCity:       order.Address.City,
		BillingPincode:    order.Address.Pincode,
		BillingState:      order.Address.State,
		BillingCountry:    "India",
		BillingEmail:      order.Address.Email,
		BillingPhone:      formatPhone(order.Address.Phone),
		ShippingIsBilling: true,
		OrderItems:        items,
		PaymentMethod:     paymentMethod,
		ShippingCharges:   strconv.FormatFloat(order.ShippingCost, 'f', 2, 64),
		SubTotal:          strconv.FormatFloat(order.Subtotal, 'f', 2, 64),
		Length:            15,
		Breadth:           15,
		Height:            10,
		Weight:            weight,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/orders/create/adhoc", nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(resp)
	}

	var data shipmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.ShipmentID.String() == "" {
		return nil, fmt.Errorf("shiprocket returned no shipment id")
	}

	shipmentRef := data.ShipmentID.String()
	return &model.ShipmentHandle{
		ShipmentRef: shipmentRef,
		AWBCode:     data.AWBCode,
		CourierName: data.CourierName,
		TrackingURL: "https://shiprocket.co/tracking/" + shipmentRef,
	}, nil
}

// Track fetches the latest courier event for a shipment.
func (c *HTTPClient) Track(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error) {
	resp, err := c.do(ctx, http.MethodGet, path.Join("/courier/track/shipment", shipmentRef), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var data trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	event := &model.TrackingEvent{
		RawStatus: data.TrackingData.ShipmentStatus,
		Timestamp: time.Now(),
	}
	if len(data.TrackingData.ShipmentTrack) > 0 {
		latest := data.TrackingData.ShipmentTrack[0]
		event.Location = latest.Location
		event.Description = latest.Activity
		if ts, err := time.Parse("2006-01-02 15:04:05", latest.Date); err == nil {
			event.Timestamp = ts
		}
	}
	return event, nil
}

// CancelShipment notifies the provider that an order was cancelled locally.
func (c *HTTPClient) CancelShipment(ctx context.Context, shipmentRef string) error {
	body, err := json.Marshal(map[string][]string{"ids": {shipmentRef}})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/orders/cancel", nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, params url.Values, body []byte) (*http.Response, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)
	if params != nil {
		endpoint.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
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

// authToken returns a cached token or logs in when it is missing or stale.
func (c *HTTPClient) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"email":    strings.TrimSpace(c.email),
		"password": strings.TrimSpace(c.password),
	})
	if err != nil {
		return "", err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/auth/login")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domainErrors.NewAdapterUnavailable(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp)
	}

	var data loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.Token == "" {
		return "", fmt.Errorf("shiprocket login returned empty token")
	}

	c.token = data.Token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	return c.token, nil
}

func (c *HTTPClient) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return c.statusError(resp)
}

func (c *HTTPClient) statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("shiprocket request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
	err := fmt.Errorf("shiprocket error: %s", resp.Status)
	if resp.StatusCode >= http.StatusInternalServerError {
		return domainErrors.NewAdapterUnavailable(providerName, err)
	}
	return err
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// pickCourier prefers the configured courier, then the cheapest quote.
func pickCourier(couriers []courierCompany) courierCompany {
	for _, courier := range couriers {
		if strings.Contains(strings.ToLower(courier.CourierName), preferredCourier) {
			return courier
		}
	}
	cheapest := couriers[0]
	for _, courier := range couriers[1:] {
		if courierRate(courier) < courierRate(cheapest) {
			cheapest = courier
		}
	}
	return cheapest
}

func courierRate(c courierCompany) float64 {
	if c.Rate != nil {
		return *c.Rate
	}
	if c.FreightCharge != nil {
		return *c.FreightCharge
	}
	return 50
}

// formatPhone normalizes an Indian phone number to ten digits: strips
// non-digits, the 91 country code, and a leading zero.
func formatPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if strings.HasPrefix(s, "91") && len(s) == 12 {
		s = s[2:]
	}
	if strings.HasPrefix(s, "0") && len(s) == 11 {
		s = s[1:]
	}
	return s
}
