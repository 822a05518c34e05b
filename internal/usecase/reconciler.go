package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/puredesi/oilshop/internal/adapter/events"
	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/domain/repository"
	"github.com/puredesi/oilshop/internal/pkg/orderlock"
)

// PaymentProof is the payment evidence submitted after an online checkout.
type PaymentProof struct {
	GatewayOrderRef string
	PaymentRef      string
	Signature       string
}

// Result is the outcome of a reconciler transition. PendingSync reports that
// an external collaborator was unreachable and the order awaits a background
// retry; the returned order still reflects authoritative local state.
type Result struct {
	Order       *model.Order
	PendingSync bool
}

// Reconciler is the single authority permitted to mutate order statuses.
// Every transition runs under a per-order lock: load state, decide, persist
// the update together with its history entries, publish the events.
type Reconciler struct {
	orders    repository.OrderRepository
	gateway   PaymentGateway
	shipper   ShipmentProvider
	publisher events.Publisher
	locks     *orderlock.KeyedMutex
	logger    *slog.Logger
	now       func() time.Time
}

// NewReconciler constructs a Reconciler.
func NewReconciler(orders repository.OrderRepository, gateway PaymentGateway, shipper ShipmentProvider, publisher events.Publisher, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		orders:    orders,
		gateway:   gateway,
		shipper:   shipper,
		publisher: publisher,
		locks:     orderlock.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// VerifyPayment checks the submitted payment proof against the gateway and
// advances a pending order to (paid, confirmed). Repeating the call with an
// already-accepted proof returns the current state without touching the
// gateway. An invalid signature marks the payment failed and surfaces
// ErrVerificationFailed; gateway downtime is absorbed into PendingSync.
func (r *Reconciler) VerifyPayment(ctx context.Context, ref string, proof PaymentProof) (*Result, error) {
	if proof.PaymentRef == "" || proof.Signature == "" {
		return nil, fmt.Errorf("%w: payment proof requires payment reference and signature", domainErrors.ErrValidation)
	}

	r.locks.Lock(ref)
	defer r.locks.Unlock(ref)

	order, err := r.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if order.FulfillmentStatus.Terminal() {
		return nil, domainErrors.NewInvariantViolation("payment verification on %s order %s", order.FulfillmentStatus, ref)
	}
	if order.PaymentStatus == model.PaymentStatusCOD {
		return nil, domainErrors.NewInvariantViolation("cash-on-delivery order %s takes no online payment", ref)
	}

	if order.PaymentStatus == model.PaymentStatusPaid {
		if order.PaymentRef == proof.PaymentRef {
			return &Result{Order: order}, nil
		}
		history, err := r.orders.History(ctx, ref)
		if err != nil {
			return nil, err
		}
		if hasNote(history, verificationNote(proof.PaymentRef)) {
			return &Result{Order: order}, nil
		}
		return nil, domainErrors.NewInvariantViolation("order %s already paid with a different payment reference", ref)
	}

	gatewayOrderRef := order.GatewayOrderRef
	if gatewayOrderRef == "" {
		gatewayOrderRef = proof.GatewayOrderRef
	}

	verification, err := r.gateway.Verify(ctx, gatewayOrderRef, proof.PaymentRef, proof.Signature)
	if err != nil {
		if domainErrors.IsAdapterUnavailable(err) {
			r.logger.Warn("payment gateway unavailable, verification deferred", slog.String("order", ref), slog.String("error", err.Error()))
			order, noteErr := r.noteOnly(ctx, order, model.ActorGateway, "payment verification deferred, gateway unavailable")
			if noteErr != nil {
				return nil, noteErr
			}
			return &Result{Order: order, PendingSync: true}, nil
		}
		return nil, err
	}

	if !verification.Verified {
		update := repository.StatusUpdate{
			PaymentStatus:     model.PaymentStatusFailed,
			FulfillmentStatus: order.FulfillmentStatus,
		}
		entry := r.entry(order, model.ActorGateway, model.PaymentStatusFailed, order.FulfillmentStatus,
			fmt.Sprintf("payment verification failed, invalid signature (%s)", proof.PaymentRef))
		if _, err := r.commit(ctx, order, update, entry); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrVerificationFailed
	}

	fulfillment := order.FulfillmentStatus
	if fulfillment == model.FulfillmentStatusPending {
		fulfillment = model.FulfillmentStatusConfirmed
	}
	update := repository.StatusUpdate{
		PaymentStatus:     model.PaymentStatusPaid,
		FulfillmentStatus: fulfillment,
		PaymentRef:        &proof.PaymentRef,
	}
	if gatewayOrderRef != "" && order.GatewayOrderRef == "" {
		update.GatewayOrderRef = &gatewayOrderRef
	}
	entry := r.entry(order, model.ActorGateway, model.PaymentStatusPaid, fulfillment, verificationNote(proof.PaymentRef))

	order, err = r.commit(ctx, order, update, entry)
	if err != nil {
		return nil, err
	}
	return &Result{Order: order}, nil
}

// AttemptShipmentCreation books a shipment for a confirmed order. Failure
// still advances fulfillment to processing with a retry-pending note: a
// captured payment is never rolled back because of a shipping outage. The
// call is re-invokable as long as no shipment reference is stored.
func (r *Reconciler) AttemptShipmentCreation(ctx context.Context, ref string) (*Result, error) {
	r.locks.Lock(ref)
	defer r.locks.Unlock(ref)

	order, err := r.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if order.FulfillmentStatus.Terminal() {
		return nil, domainErrors.NewInvariantViolation("shipment creation on %s order %s", order.FulfillmentStatus, ref)
	}
	if order.ShipmentRef != "" {
		return &Result{Order: order}, nil
	}
	if order.FulfillmentStatus != model.FulfillmentStatusConfirmed && order.FulfillmentStatus != model.FulfillmentStatusProcessing {
		return nil, domainErrors.NewInvariantViolation("shipment creation before confirmation of order %s", ref)
	}

	handle, err := r.shipper.CreateShipment(ctx, order)
	if err != nil {
		r.logger.Warn("shipment creation failed, retry pending", slog.String("order", ref), slog.String("error", err.Error()))
		update := repository.StatusUpdate{
			PaymentStatus:     order.PaymentStatus,
			FulfillmentStatus: model.FulfillmentStatusProcessing,
		}
		entry := r.entry(order, model.ActorShipper, order.PaymentStatus, model.FulfillmentStatusProcessing,
			"shipment creation failed, retry pending: "+err.Error())
		order, commitErr := r.commit(ctx, order, update, entry)
		if commitErr != nil {
			return nil, commitErr
		}
		return &Result{Order: order, PendingSync: true}, nil
	}

	update := repository.StatusUpdate{
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: model.FulfillmentStatusProcessing,
		ShipmentRef:       &handle.ShipmentRef,
		AWBCode:           &handle.AWBCode,
		CourierName:       &handle.CourierName,
		TrackingURL:       &handle.TrackingURL,
	}
	entry := r.entry(order, model.ActorShipper, order.PaymentStatus, model.FulfillmentStatusProcessing,
		fmt.Sprintf("shipment created (%s)", handle.ShipmentRef))

	order, err = r.commit(ctx, order, update, entry)
	if err != nil {
		return nil, err
	}
	return &Result{Order: order}, nil
}

// ReconcileTracking folds a courier event into the order. Fulfillment only
// moves forward along processing -> shipped -> delivered; an event that
// would move it backward is appended to history as a no-op. A delivered
// event always wins over any prior non-terminal state.
func (r *Reconciler) ReconcileTracking(ctx context.Context, ref string, event model.TrackingEvent) (*Result, error) {
	r.locks.Lock(ref)
	defer r.locks.Unlock(ref)

	order, err := r.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	class := model.ClassifyTrackingStatus(event.RawStatus)
	note := trackingNote(event.RawStatus, class)

	if order.FulfillmentStatus.Terminal() {
		order, err = r.noteOnly(ctx, order, model.ActorTracker, note+" (order already "+string(order.FulfillmentStatus)+")")
		if err != nil {
			return nil, err
		}
		return &Result{Order: order}, nil
	}
	if order.ShipmentRef == "" {
		return nil, domainErrors.NewInvariantViolation("tracking event for order %s without a shipment reference", ref)
	}

	target := order.FulfillmentStatus
	var deliveredAt *time.Time
	switch class {
	case model.TrackingDelivered:
		target = model.FulfillmentStatusDelivered
		ts := event.Timestamp
		if ts.IsZero() {
			ts = r.now().UTC()
		}
		deliveredAt = &ts
	case model.TrackingCancelled:
		target = model.FulfillmentStatusCancelled
	case model.TrackingOutForDelivery:
		target = model.FulfillmentStatusShipped
	case model.TrackingInTransit:
		// A transit event promotes to shipped only once a pickup was seen;
		// transit noise before pickup confirmation is recorded, not trusted.
		history, err := r.orders.History(ctx, ref)
		if err != nil {
			return nil, err
		}
		if hasNote(history, "classified "+model.TrackingPickedUp.String()) {
			target = model.FulfillmentStatusShipped
		}
	}

	if target == model.FulfillmentStatusCancelled {
		update := repository.StatusUpdate{
			PaymentStatus:     order.PaymentStatus,
			FulfillmentStatus: model.FulfillmentStatusCancelled,
		}
		entry := r.entry(order, model.ActorTracker, order.PaymentStatus, model.FulfillmentStatusCancelled, note)
		order, err = r.commit(ctx, order, update, entry)
		if err != nil {
			return nil, err
		}
		return &Result{Order: order}, nil
	}

	if !order.FulfillmentStatus.Before(target) {
		order, err = r.noteOnly(ctx, order, model.ActorTracker, note)
		if err != nil {
			return nil, err
		}
		return &Result{Order: order}, nil
	}

	update := repository.StatusUpdate{
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: target,
		DeliveredAt:       deliveredAt,
	}
	entry := r.entry(order, model.ActorTracker, order.PaymentStatus, target, note)

	order, err = r.commit(ctx, order, update, entry)
	if err != nil {
		return nil, err
	}
	return &Result{Order: order}, nil
}

// Cancel moves a non-terminal order to cancelled. The shipment provider is
// notified best-effort, and a captured payment gets a best-effort refund;
// neither collaborator failure blocks the local cancellation.
func (r *Reconciler) Cancel(ctx context.Context, ref, reason, actor string) (*Result, error) {
	r.locks.Lock(ref)
	defer r.locks.Unlock(ref)

	order, err := r.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if order.FulfillmentStatus.Terminal() {
		return nil, domainErrors.NewInvariantViolation("cancel of %s order %s", order.FulfillmentStatus, ref)
	}

	pendingSync := false
	entries := make([]model.HistoryEntry, 0, 2)

	if order.ShipmentRef != "" {
		if err := r.shipper.CancelShipment(ctx, order.ShipmentRef); err != nil {
			r.logger.Warn("shipment cancellation notice failed", slog.String("order", ref), slog.String("error", err.Error()))
			pendingSync = true
		}
	}

	paymentStatus := order.PaymentStatus
	if order.PaymentStatus == model.PaymentStatusPaid {
		if err := r.gateway.Refund(ctx, order.PaymentRef, 0, reason); err != nil {
			r.logger.Warn("refund failed, payment left captured", slog.String("order", ref), slog.String("error", err.Error()))
			entries = append(entries, r.entry(order, actor, order.PaymentStatus, model.FulfillmentStatusCancelled, "refund pending: "+err.Error()))
			pendingSync = true
		} else {
			paymentStatus = model.PaymentStatusRefunded
		}
	}

	note := "order cancelled"
	if reason != "" {
		note += ": " + reason
	}
	update := repository.StatusUpdate{
		PaymentStatus:     paymentStatus,
		FulfillmentStatus: model.FulfillmentStatusCancelled,
	}
	entries = append(entries, r.entry(order, actor, paymentStatus, model.FulfillmentStatusCancelled, note))

	order, err = r.commit(ctx, order, update, entries...)
	if err != nil {
		return nil, err
	}
	return &Result{Order: order, PendingSync: pendingSync}, nil
}

// commit persists the update with its history entries in one transaction,
// publishes the events, and returns the stored snapshot.
func (r *Reconciler) commit(ctx context.Context, order *model.Order, update repository.StatusUpdate, entries ...model.HistoryEntry) (*model.Order, error) {
	if err := r.orders.ApplyTransition(ctx, order.Ref, update, entries); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		r.publisher.Publish(ctx, events.OrderEvent{
			OrderRef:   entry.OrderRef,
			Actor:      entry.Actor,
			FromState:  entry.FromState,
			ToState:    entry.ToState,
			Note:       entry.Note,
			OccurredAt: entry.CreatedAt,
		})
	}
	return r.orders.GetByRef(ctx, order.Ref)
}

// noteOnly appends a history entry without changing statuses.
func (r *Reconciler) noteOnly(ctx context.Context, order *model.Order, actor, note string) (*model.Order, error) {
	update := repository.StatusUpdate{
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
	}
	return r.commit(ctx, order, update, r.entry(order, actor, order.PaymentStatus, order.FulfillmentStatus, note))
}

func (r *Reconciler) entry(order *model.Order, actor string, toPayment model.PaymentStatus, toFulfillment model.FulfillmentStatus, note string) model.HistoryEntry {
	return model.HistoryEntry{
		OrderRef:  order.Ref,
		Actor:     actor,
		FromState: model.StateLabel(order.PaymentStatus, order.FulfillmentStatus),
		ToState:   model.StateLabel(toPayment, toFulfillment),
		Note:      note,
		CreatedAt: r.now().UTC(),
	}
}

func verificationNote(paymentRef string) string {
	return fmt.Sprintf("payment verified (%s)", paymentRef)
}

func trackingNote(raw string, class model.TrackingClass) string {
	return fmt.Sprintf("courier update %q classified %s", raw, class)
}

func hasNote(history []model.HistoryEntry, fragment string) bool {
	for _, entry := range history {
		if strings.Contains(entry.Note, fragment) {
			return true
		}
	}
	return false
}
