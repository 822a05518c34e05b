package model

import "time"

// HistoryEntry is one row of the append-only order audit trail. Entries are
// never rewritten; idempotency checks scan them.
type HistoryEntry struct {
	ID        int64
	OrderRef  string
	Actor     string
	FromState string
	ToState   string
	Note      string
	CreatedAt time.Time
}

// Actors recorded in order history.
const (
	ActorCheckout = "checkout"
	ActorGateway  = "payment-gateway"
	ActorShipper  = "shipment-provider"
	ActorTracker  = "tracking-poller"
	ActorAdmin    = "admin"
)

// StateLabel renders the combined status pair used in history entries.
func StateLabel(p PaymentStatus, f FulfillmentStatus) string {
	return string(p) + "/" + string(f)
}
