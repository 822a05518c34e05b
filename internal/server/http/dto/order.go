package dto

import (
	"time"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/usecase"
)

// AddressPayload carries the shipping destination in requests and responses.
type AddressPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Line     string `json:"line"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

// OrderItemPayload describes one cart line in a checkout request.
type OrderItemPayload struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// CreateOrderRequest describes an order placement payload.
type CreateOrderRequest struct {
	Address       AddressPayload     `json:"address"`
	Items         []OrderItemPayload `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	CustomerNote  string             `json:"customer_note,omitempty"`
}

// Input converts the request into a checkout input.
func (r CreateOrderRequest) Input() usecase.CheckoutInput {
	items := make([]usecase.CheckoutItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, usecase.CheckoutItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return usecase.CheckoutInput{
		Address: model.Address{
			Name:     r.Address.Name,
			Phone:    r.Address.Phone,
			Email:    r.Address.Email,
			Line:     r.Address.Line,
			City:     r.Address.City,
			State:    r.Address.State,
			Pincode:  r.Address.Pincode,
			Landmark: r.Address.Landmark,
		},
		Items:         items,
		PaymentMethod: r.PaymentMethod,
		CustomerNote:  r.CustomerNote,
	}
}

// OrderItemResponse mirrors a stored order line.
type OrderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// OrderResponse is the order snapshot returned by order endpoints.
type OrderResponse struct {
	Ref               string              `json:"ref"`
	PaymentStatus     string              `json:"payment_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	PaymentMethod     string              `json:"payment_method"`
	GatewayOrderRef   string              `json:"gateway_order_ref,omitempty"`
	PaymentRef        string              `json:"payment_ref,omitempty"`
	ShipmentRef       string              `json:"shipment_ref,omitempty"`
	AWBCode           string              `json:"awb_code,omitempty"`
	CourierName       string              `json:"courier_name,omitempty"`
	TrackingURL       string              `json:"tracking_url,omitempty"`
	Address           AddressPayload      `json:"address"`
	Items             []OrderItemResponse `json:"items"`
	Subtotal          float64             `json:"subtotal"`
	ShippingCost      float64             `json:"shipping_cost"`
	Total             float64             `json:"total"`
	CustomerNote      string              `json:"customer_note,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// HistoryEntryResponse is one audit trail row.
type HistoryEntryResponse struct {
	Actor     string    `json:"actor"`
	FromState string    `json:"from_state,omitempty"`
	ToState   string    `json:"to_state"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetailResponse couples an order with its audit trail.
type OrderDetailResponse struct {
	Order   OrderResponse          `json:"order"`
	History []HistoryEntryResponse `json:"history"`
}

// OrderResultResponse reports the order after a lifecycle operation.
// PendingSync flags that a third-party call was deferred and a background
// retry will finish the work.
type OrderResultResponse struct {
	Order       OrderResponse `json:"order"`
	PendingSync bool          `json:"pending_sync"`
}

// CancelOrderRequest carries the admin cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
