package dto

import "time"

// PincodeResponse reports destination serviceability.
type PincodeResponse struct {
	Serviceable   bool   `json:"serviceable"`
	Pincode       string `json:"pincode"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	CODAvailable  bool   `json:"cod_available"`
	EstimatedDays string `json:"estimated_days,omitempty"`
	CourierName   string `json:"courier_name,omitempty"`
}

// ShippingEstimateRequest asks for a shipping charge for a prospective cart.
type ShippingEstimateRequest struct {
	Pincode  string  `json:"pincode"`
	Subtotal float64 `json:"subtotal"`
	Weight   float64 `json:"weight,omitempty"`
	COD      bool    `json:"cod,omitempty"`
}

// ShippingEstimateResponse returns the computed charge.
type ShippingEstimateResponse struct {
	ShippingCharge float64 `json:"shipping_charge"`
}

// TrackOrderResponse is the public tracking view of an order.
type TrackOrderResponse struct {
	Ref               string                 `json:"ref"`
	FulfillmentStatus string                 `json:"fulfillment_status"`
	CourierName       string                 `json:"courier_name,omitempty"`
	AWBCode           string                 `json:"awb_code,omitempty"`
	TrackingURL       string                 `json:"tracking_url,omitempty"`
	DeliveredAt       *time.Time             `json:"delivered_at,omitempty"`
	History           []HistoryEntryResponse `json:"history"`
}

// TrackingWebhookRequest is a courier status push for a shipment.
type TrackingWebhookRequest struct {
	Status      string    `json:"current_status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}
