package dto

// PaymentSessionRequest asks the gateway to open a payment session for an
// order awaiting online payment.
type PaymentSessionRequest struct {
	OrderRef string `json:"order_ref"`
}

// PaymentSessionResponse returns the gateway order the frontend checks out
// against.
type PaymentSessionResponse struct {
	GatewayOrderRef string `json:"gateway_order_ref"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

// VerifyPaymentRequest carries the signed payment proof returned by the
// gateway's checkout widget. Field names follow the gateway callback.
type VerifyPaymentRequest struct {
	OrderRef        string `json:"order_ref"`
	GatewayOrderRef string `json:"razorpay_order_id"`
	PaymentRef      string `json:"razorpay_payment_id"`
	Signature       string `json:"razorpay_signature"`
}
