package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/domain/repository"
)

const (
	// Orders at or above this subtotal ship free.
	freeShippingThreshold = 999.0
	// Provider-quoted charges are capped at this amount.
	shippingCap = 100.0
	// Flat charge when the provider quote is unavailable.
	fallbackShipping = 50.0

	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// CheckoutItem is one purchased line in a checkout request.
type CheckoutItem struct {
	ProductID   int64
	ProductName string
	Size        string
	Unit        string
	Quantity    int
	Price       float64
}

// CheckoutInput is a validated-on-entry order placement request.
type CheckoutInput struct {
	Address       model.Address
	Items         []CheckoutItem
	PaymentMethod string
	CustomerNote  string
}

// CheckoutUseCase creates orders and computes shipping. Financials are fixed
// here and never recomputed after confirmation.
type CheckoutUseCase struct {
	orders  repository.OrderRepository
	gateway PaymentGateway
	shipper ShipmentProvider
	logger  *slog.Logger
	now     func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, gateway PaymentGateway, shipper ShipmentProvider, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:  orders,
		gateway: gateway,
		shipper: shipper,
		logger:  logger,
		now:     time.Now,
	}
}

// Create places a new order. Online orders start (pending, pending) and wait
// for payment verification; cash-on-delivery orders confirm immediately.
func (u *CheckoutUseCase) Create(ctx context.Context, input CheckoutInput) (*model.Order, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	subtotal := 0.0
	weight := 0.0
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		total := item.Price * float64(item.Quantity)
		items = append(items, model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       total,
		})
		subtotal += total
		weight += float64(item.Quantity)
	}

	cod := input.PaymentMethod == PaymentMethodCOD
	shipping := u.shippingCharge(ctx, input.Address.Pincode, subtotal, weight, cod)

	now := u.now().UTC()
	order := &model.Order{
		Ref:               model.NewOrderRef(now),
		PaymentStatus:     model.PaymentStatusPending,
		FulfillmentStatus: model.FulfillmentStatusPending,
		PaymentMethod:     input.PaymentMethod,
		Address:           input.Address,
		Items:             items,
		Subtotal:          subtotal,
		ShippingCost:      shipping,
		Total:             subtotal + shipping,
		CustomerNote:      input.CustomerNote,
	}
	if cod {
		order.PaymentStatus = model.PaymentStatusCOD
		order.FulfillmentStatus = model.FulfillmentStatusConfirmed
	}

	entry := model.HistoryEntry{
		OrderRef:  order.Ref,
		Actor:     model.ActorCheckout,
		FromState: "",
		ToState:   model.StateLabel(order.PaymentStatus, order.FulfillmentStatus),
		Note:      "order created, " + input.PaymentMethod,
		CreatedAt: now,
	}

	return u.orders.Create(ctx, order, entry)
}

// CreateGatewayOrder opens a payment session at the gateway for an online
// order awaiting payment and stores the gateway's order reference.
func (u *CheckoutUseCase) CreateGatewayOrder(ctx context.Context, ref string) (*model.GatewayOrder, error) {
	order, err := u.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != model.PaymentStatusPending {
		return nil, domainErrors.NewInvariantViolation("payment session for order %s with payment already %s", ref, order.PaymentStatus)
	}

	gatewayOrder, err := u.gateway.CreateOrder(ctx, order.Total, order.Ref)
	if err != nil {
		return nil, err
	}

	update := repository.StatusUpdate{
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		GatewayOrderRef:   &gatewayOrder.Ref,
	}
	entry := model.HistoryEntry{
		OrderRef:  order.Ref,
		Actor:     model.ActorCheckout,
		FromState: model.StateLabel(order.PaymentStatus, order.FulfillmentStatus),
		ToState:   model.StateLabel(order.PaymentStatus, order.FulfillmentStatus),
		Note:      fmt.Sprintf("payment session created (%s)", gatewayOrder.Ref),
		CreatedAt: u.now().UTC(),
	}
	if err := u.orders.ApplyTransition(ctx, order.Ref, update, []model.HistoryEntry{entry}); err != nil {
		return nil, err
	}
	return gatewayOrder, nil
}

// CheckPincode reports destination serviceability straight from the provider.
func (u *CheckoutUseCase) CheckPincode(ctx context.Context, pincode string) (*model.ShippingQuote, error) {
	if !pincodePattern.MatchString(pincode) {
		return nil, fmt.Errorf("%w: pincode must be six digits", domainErrors.ErrValidation)
	}
	return u.shipper.Quote(ctx, pincode, 1, 0)
}

// EstimateShipping computes the shipping charge for a prospective cart.
func (u *CheckoutUseCase) EstimateShipping(ctx context.Context, pincode string, subtotal, weight float64, cod bool) (float64, error) {
	if !pincodePattern.MatchString(pincode) {
		return 0, fmt.Errorf("%w: pincode must be six digits", domainErrors.ErrValidation)
	}
	if subtotal < 0 {
		return 0, fmt.Errorf("%w: subtotal must not be negative", domainErrors.ErrValidation)
	}
	return u.shippingCharge(ctx, pincode, subtotal, weight, cod), nil
}

// shippingCharge applies the pricing ladder: free above the threshold, then
// the provider quote capped, then the flat fallback when the quote fails.
func (u *CheckoutUseCase) shippingCharge(ctx context.Context, pincode string, subtotal, weight float64, cod bool) float64 {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	if weight <= 0 {
		weight = 1
	}
	codAmount := 0.0
	if cod {
		codAmount = subtotal
	}

	quote, err := u.shipper.Quote(ctx, pincode, weight, codAmount)
	if err != nil || !quote.Serviceable {
		if err != nil {
			u.logger.Warn("shipping quote unavailable, flat charge applied", slog.String("pincode", pincode), slog.String("error", err.Error()))
		}
		return fallbackShipping
	}
	if quote.TotalCharge > shippingCap {
		return shippingCap
	}
	return quote.TotalCharge
}

func validateCheckout(input CheckoutInput) error {
	addr := input.Address
	switch {
	case strings.TrimSpace(addr.Name) == "":
		return fmt.Errorf("%w: customer name is required", domainErrors.ErrValidation)
	case strings.TrimSpace(addr.Phone) == "":
		return fmt.Errorf("%w: phone is required", domainErrors.ErrValidation)
	case strings.TrimSpace(addr.Line) == "":
		return fmt.Errorf("%w: address line is required", domainErrors.ErrValidation)
	case strings.TrimSpace(addr.City) == "":
		return fmt.Errorf("%w: city is required", domainErrors.ErrValidation)
	case strings.TrimSpace(addr.State) == "":
		return fmt.Errorf("%w: state is required", domainErrors.ErrValidation)
	case !pincodePattern.MatchString(addr.Pincode):
		return fmt.Errorf("%w: pincode must be six digits", domainErrors.ErrValidation)
	}

	if input.PaymentMethod != PaymentMethodOnline && input.PaymentMethod != PaymentMethodCOD {
		return fmt.Errorf("%w: payment method must be online or cod", domainErrors.ErrValidation)
	}
	if len(input.Items) == 0 {
		return fmt.Errorf("%w: order requires at least one item", domainErrors.ErrValidation)
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return fmt.Errorf("%w: item name is required", domainErrors.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", domainErrors.ErrValidation)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item price must not be negative", domainErrors.ErrValidation)
		}
	}
	return nil
}
