package model

// PaymentVerification is the gateway's verdict on a payment proof.
type PaymentVerification struct {
	Verified   bool
	PaymentRef string
	Amount     float64
	Method     string
}

// GatewayOrder is a payment order registered with the gateway ahead of
// capture; the frontend completes checkout against it.
type GatewayOrder struct {
	Ref      string
	Amount   int64 // minor units (paise)
	Currency string
	KeyID    string
}
