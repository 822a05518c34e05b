package model

// ShipmentHandle identifies a shipment successfully registered with the
// provider. ShipmentRef is the reference used for tracking polls.
type ShipmentHandle struct {
	ShipmentRef string
	AWBCode     string
	CourierName string
	TrackingURL string
}

// ShippingQuote is the provider's serviceability answer for a destination.
type ShippingQuote struct {
	Serviceable    bool
	Pincode        string
	City           string
	State          string
	CODAvailable   bool
	ShippingCharge float64
	CODCharge      float64
	TotalCharge    float64
	EstimatedDays  string
	CourierName    string
}
