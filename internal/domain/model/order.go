package model

import (
	"fmt"
	"math/rand"
	"time"
)

// PaymentStatus describes the payment side of the order lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusCOD      PaymentStatus = "cod"
)

// FulfillmentStatus describes physical order progress.
type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "pending"
	FulfillmentStatusConfirmed  FulfillmentStatus = "confirmed"
	FulfillmentStatusProcessing FulfillmentStatus = "processing"
	FulfillmentStatusShipped    FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered  FulfillmentStatus = "delivered"
	FulfillmentStatusCancelled  FulfillmentStatus = "cancelled"
)

// Terminal reports whether no further fulfillment transitions are permitted.
func (s FulfillmentStatus) Terminal() bool {
	return s == FulfillmentStatusDelivered || s == FulfillmentStatusCancelled
}

// fulfillmentRank orders the forward-only part of the lifecycle. Statuses
// outside the Processing->Shipped->Delivered chain rank below it.
func fulfillmentRank(s FulfillmentStatus) int {
	switch s {
	case FulfillmentStatusProcessing:
		return 1
	case FulfillmentStatusShipped:
		return 2
	case FulfillmentStatusDelivered:
		return 3
	default:
		return 0
	}
}

// Before reports whether s precedes other along the monotonic shipping chain.
func (s FulfillmentStatus) Before(other FulfillmentStatus) bool {
	return fulfillmentRank(s) < fulfillmentRank(other)
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Name     string
	Phone    string
	Email    string
	Line     string
	City     string
	State    string
	Pincode  string
	Landmark string
}

// OrderItem is a purchased line item, denormalized at checkout time.
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Size        string
	Unit        string
	Quantity    int
	Price       float64
	Total       float64
}

// Order is the authoritative order record. Statuses are mutated exclusively
// through the reconciler's transition function.
type Order struct {
	ID                int64
	Ref               string
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	PaymentMethod     string
	GatewayOrderRef   string
	PaymentRef        string
	ShipmentRef       string
	AWBCode           string
	CourierName       string
	TrackingURL       string
	Address           Address
	Items             []OrderItem
	Subtotal          float64
	ShippingCost      float64
	Total             float64
	CustomerNote      string
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrderRef generates an order reference, e.g. PD202601021504059382.
func NewOrderRef(now time.Time) string {
	return fmt.Sprintf("PD%s%04d", now.Format("20060102150405"), rand.Intn(10000))
}
