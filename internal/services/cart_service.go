package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"eclat/internal/models"
	"eclat/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher is the slice of the message-queue client the checkout engine
// needs. A nil publisher disables event publication.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// TransitionResult reports the outcome of a checkout step transition. Blocked
// transitions carry the reason so it can be surfaced inline; they are not
// errors.
type TransitionResult struct {
	OK     bool                `json:"ok"`
	Step   models.CheckoutStep `json:"step"`
	Reason string              `json:"reason,omitempty"`
}

func transitionOK(step models.CheckoutStep) TransitionResult {
	return TransitionResult{OK: true, Step: step}
}

func transitionBlocked(step models.CheckoutStep, reason string) TransitionResult {
	return TransitionResult{Step: step, Reason: reason}
}

// CartService owns the in-progress cart and drives the three-step checkout
// flow: cart -> shipping -> payment. On a successful payment it emits exactly
// one order and reconciles catalog stock. All state is injected at
// construction; the service itself holds only the transient checkout state.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	gateway     PaymentGateway
	publisher   EventPublisher

	mu         sync.Mutex
	cart       models.Cart
	shipping   models.ShippingInfo
	processing bool // re-entrancy guard for SubmitPayment
}

// NewCartService creates a CartService and restores the persisted cart
// snapshot, if any.
func NewCartService(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
) *CartService {
	s := &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		publisher:   publisher,
		cart:        models.NewCart(),
	}
	s.restore()
	return s
}

// restore loads the persisted snapshot into the cart. Snapshots never carry
// shipping or payment details, so a restored checkout resumes from its saved
// step with fields to re-enter.
func (s *CartService) restore() {
	snapshot, err := s.cartRepo.Load()
	if err != nil {
		log.Printf("Warning: could not restore cart snapshot: %v", err)
		return
	}
	if snapshot == nil {
		return
	}
	s.cart.Items = snapshot.Items
	s.cart.Step = snapshot.Step
	s.normalizeLocked()
}

// normalizeLocked repairs states the flow does not define: an empty cart past
// the cart step, an unknown step, or a leftover order_placed step.
func (s *CartService) normalizeLocked() {
	switch s.cart.Step {
	case models.StepCart, models.StepShipping, models.StepPayment:
	default:
		s.cart.Step = models.StepCart
	}
	if s.cart.IsEmpty() {
		s.cart.Step = models.StepCart
	}
}

// persistLocked saves the current cart snapshot. Persistence failures are
// recoverable (the in-memory cart stays authoritative), so they are logged,
// not propagated.
func (s *CartService) persistLocked() {
	snapshot := &models.CartSnapshot{
		Items: append([]models.CartItem(nil), s.cart.Items...),
		Step:  s.cart.Step,
	}
	if err := s.cartRepo.Save(snapshot); err != nil {
		log.Printf("Warning: could not persist cart snapshot: %v", err)
	}
}

// Items returns a copy of the cart's items in insertion order.
func (s *CartService) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.cart.Items...)
}

// Step returns the current checkout step.
func (s *CartService) Step() models.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Step
}

// Shipping returns the shipping info entered so far.
func (s *CartService) Shipping() models.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

// Subtotal returns the sum of price x quantity over the cart.
func (s *CartService) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// ShippingFee returns the current shipping fee.
func (s *CartService) ShippingFee() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ShippingFee()
}

// Total returns subtotal plus shipping fee.
func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Count returns the number of units in the cart.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

// AddItem puts quantity of product into the cart, merging with an existing
// entry. Stock is not checked here; availability is reconciled at order time.
func (s *CartService) AddItem(product models.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(product, quantity)
	s.persistLocked()
}

// UpdateQuantity adjusts an item's quantity by delta, clamping at 1. Unknown
// product ids are a no-op.
func (s *CartService) UpdateQuantity(productID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, delta)
	s.persistLocked()
}

// RemoveItem deletes the entry for productID if present.
func (s *CartService) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(productID)
	s.normalizeLocked()
	s.persistLocked()
}

// Clear empties the cart, resets the checkout flow and drops the persisted
// snapshot. The caller invokes this after a placed order has been presented.
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.shipping = models.ShippingInfo{}
	if err := s.cartRepo.Clear(); err != nil {
		log.Printf("Warning: could not clear cart snapshot: %v", err)
	}
}

// SetShipping stores the delivery details entered at the shipping step. The
// fields persist across backward navigation until the cart is cleared.
func (s *CartService) SetShipping(info models.ShippingInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipping = info
}

// ProceedToShipping moves cart -> shipping. Any non-empty cart may proceed.
func (s *CartService) ProceedToShipping() TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		s.cart.Step = models.StepCart
		return transitionBlocked(models.StepCart, "cart is empty")
	}
	if s.cart.Step == models.StepCart {
		s.cart.Step = models.StepShipping
		s.persistLocked()
	}
	return transitionOK(s.cart.Step)
}

// ProceedToPayment moves shipping -> payment once every shipping field is
// filled in.
func (s *CartService) ProceedToPayment() TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		s.cart.Step = models.StepCart
		s.persistLocked()
		return transitionBlocked(models.StepCart, "cart is empty")
	}
	if s.cart.Step == models.StepCart {
		return transitionBlocked(s.cart.Step, "proceed to shipping first")
	}
	if missing := s.shipping.MissingFields(); len(missing) > 0 {
		return transitionBlocked(s.cart.Step, "missing shipping fields: "+strings.Join(missing, ", "))
	}
	if s.cart.Step == models.StepShipping {
		s.cart.Step = models.StepPayment
		s.persistLocked()
	}
	return transitionOK(s.cart.Step)
}

// Back returns to an earlier step without losing any entered data.
func (s *CartService) Back(target models.CheckoutStep) TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target != models.StepCart && target != models.StepShipping {
		return transitionBlocked(s.cart.Step, "can only move back to the cart or shipping step")
	}
	if stepRank(target) >= stepRank(s.cart.Step) {
		return transitionBlocked(s.cart.Step, "cannot move forward with back")
	}
	s.cart.Step = target
	s.persistLocked()
	return transitionOK(s.cart.Step)
}

// SubmitPayment runs the payment step: it validates the card details, charges
// the gateway and, on approval, emits exactly one order and decrements stock
// for every item, floored at 0. A submission while another is in flight is
// suppressed. On success the cart is left at the order_placed step; the caller
// decides when to Clear it.
func (s *CartService) SubmitPayment(ctx context.Context, payment models.PaymentInfo) (*models.Order, TransitionResult) {
	s.mu.Lock()
	if s.processing {
		step := s.cart.Step
		s.mu.Unlock()
		return nil, transitionBlocked(step, "a payment is already being processed")
	}
	if s.cart.IsEmpty() {
		s.cart.Step = models.StepCart
		s.persistLocked()
		s.mu.Unlock()
		return nil, transitionBlocked(models.StepCart, "cart is empty")
	}
	if s.cart.Step != models.StepPayment {
		step := s.cart.Step
		s.mu.Unlock()
		return nil, transitionBlocked(step, "not at the payment step")
	}
	payment.Normalize()
	if !payment.Valid() {
		step := s.cart.Step
		s.mu.Unlock()
		return nil, transitionBlocked(step, "cardholder name and a full 16-digit card number are required")
	}

	// Snapshot everything the order needs before releasing the lock for the
	// gateway round trip.
	items := append([]models.CartItem(nil), s.cart.Items...)
	total := s.cart.Total()
	email := s.shipping.Email
	s.processing = true
	s.mu.Unlock()

	result, err := s.gateway.Charge(ctx, total, payment)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false

	if err != nil {
		log.Printf("Payment gateway error: %v", err)
		return nil, transitionBlocked(s.cart.Step, "payment could not be processed, please retry")
	}
	if result.Outcome != PaymentApproved {
		reason := result.Reason
		if reason == "" {
			reason = string(result.Outcome)
		}
		return nil, transitionBlocked(s.cart.Step, "payment "+string(result.Outcome)+": "+reason)
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		Items:         items,
		Total:         total,
		Status:        models.StatusPending,
		CustomerEmail: email,
		CreatedAt:     time.Now(),
	}
	if err := s.orderRepo.Create(order); err != nil {
		log.Printf("Failed to record order: %v", err)
		return nil, transitionBlocked(s.cart.Step, "could not record the order, please retry")
	}

	// Stock reconciliation. Unknown products are silent no-ops; a failed
	// decrement leaves the order in place (see DESIGN.md on atomicity).
	for _, item := range items {
		if err := s.productRepo.DecrementStock(item.Product.ID, item.Quantity); err != nil {
			log.Printf("Warning: failed to decrement stock for product %s: %v", item.Product.ID, err)
		}
	}

	s.publishOrderCreated(order)

	s.cart.Step = models.StepOrderPlaced
	s.persistLocked()
	return order, transitionOK(models.StepOrderPlaced)
}

func (s *CartService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping order.created publication.")
		return
	}
	event := map[string]interface{}{
		"order_id":       order.ID,
		"total":          order.Total,
		"status":         order.Status,
		"customer_email": order.CustomerEmail,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.created", body); err != nil {
		log.Printf("Warning: failed to publish order.created for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Published order.created for order %s", order.ID)
}

func stepRank(step models.CheckoutStep) int {
	switch step {
	case models.StepCart:
		return 0
	case models.StepShipping:
		return 1
	case models.StepPayment:
		return 2
	case models.StepOrderPlaced:
		return 3
	}
	return 0
}
