package model

import (
	"strings"
	"time"
)

// TrackingEvent is a raw courier update from the shipment provider. Only its
// classified effect is persisted.
type TrackingEvent struct {
	RawStatus   string
	Location    string
	Description string
	Timestamp   time.Time
}

// TrackingClass is the classified meaning of a raw courier status.
type TrackingClass int

const (
	TrackingUnknown TrackingClass = iota
	TrackingPickedUp
	TrackingInTransit
	TrackingOutForDelivery
	TrackingDelivered
	TrackingCancelled
)

func (c TrackingClass) String() string {
	switch c {
	case TrackingPickedUp:
		return "picked_up"
	case TrackingInTransit:
		return "in_transit"
	case TrackingOutForDelivery:
		return "out_for_delivery"
	case TrackingDelivered:
		return "delivered"
	case TrackingCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ClassifyTrackingStatus maps a free-text courier status to a TrackingClass
// by lower-cased substring match. Highest-priority match wins:
// delivered > cancelled > out for delivery > in transit > picked up.
func ClassifyTrackingStatus(raw string) TrackingClass {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "delivered"):
		return TrackingDelivered
	case strings.Contains(s, "cancel"), strings.Contains(s, "rto"):
		return TrackingCancelled
	case strings.Contains(s, "out for delivery"):
		return TrackingOutForDelivery
	case strings.Contains(s, "transit"), strings.Contains(s, "shipped"):
		return TrackingInTransit
	case strings.Contains(s, "picked"), strings.Contains(s, "pickup"):
		return TrackingPickedUp
	default:
		return TrackingUnknown
	}
}
