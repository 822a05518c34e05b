package model

import (
	"strings"
	"testing"
	"time"
)

func TestClassifyTrackingStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want TrackingClass
	}{
		{"Delivered", TrackingDelivered},
		{"Shipment Delivered to consignee", TrackingDelivered},
		{"Out For Delivery", TrackingOutForDelivery},
		{"In Transit", TrackingInTransit},
		{"Shipped", TrackingInTransit},
		{"Picked Up", TrackingPickedUp},
		{"Pickup Scheduled", TrackingPickedUp},
		{"Cancelled", TrackingCancelled},
		{"RTO Initiated", TrackingCancelled},
		{"Manifest generated", TrackingUnknown},
		{"", TrackingUnknown},
	}
	for _, tc := range tests {
		if got := ClassifyTrackingStatus(tc.raw); got != tc.want {
			t.Errorf("ClassifyTrackingStatus(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestClassifyTrackingStatusPriority(t *testing.T) {
	// A noisy status mentioning several phases must resolve to the highest.
	if got := ClassifyTrackingStatus("picked up, in transit, delivered"); got != TrackingDelivered {
		t.Fatalf("expected delivered to win, got %v", got)
	}
	if got := ClassifyTrackingStatus("in transit after pickup"); got != TrackingInTransit {
		t.Fatalf("expected in_transit to win over picked_up, got %v", got)
	}
}

func TestFulfillmentStatusTerminal(t *testing.T) {
	for _, s := range []FulfillmentStatus{FulfillmentStatusDelivered, FulfillmentStatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []FulfillmentStatus{FulfillmentStatusPending, FulfillmentStatusConfirmed, FulfillmentStatusProcessing, FulfillmentStatusShipped} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestFulfillmentStatusBefore(t *testing.T) {
	if !FulfillmentStatusProcessing.Before(FulfillmentStatusShipped) {
		t.Fatal("processing should precede shipped")
	}
	if !FulfillmentStatusShipped.Before(FulfillmentStatusDelivered) {
		t.Fatal("shipped should precede delivered")
	}
	if FulfillmentStatusDelivered.Before(FulfillmentStatusShipped) {
		t.Fatal("delivered must not precede shipped")
	}
	if FulfillmentStatusShipped.Before(FulfillmentStatusShipped) {
		t.Fatal("a status does not precede itself")
	}
}

func TestNewOrderRef(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	ref := NewOrderRef(now)
	if !strings.HasPrefix(ref, "PD20260102150405") {
		t.Fatalf("unexpected ref prefix: %s", ref)
	}
	if len(ref) != len("PD20260102150405")+4 {
		t.Fatalf("unexpected ref length: %s", ref)
	}
}

func TestStateLabel(t *testing.T) {
	if got := StateLabel(PaymentStatusPaid, FulfillmentStatusConfirmed); got != "paid/confirmed" {
		t.Fatalf("unexpected label %q", got)
	}
}
