package models

import (
	"strings"
	"time"
)

// CheckoutStep is the stage of the purchase flow the cart is in.
type CheckoutStep string

const (
	StepCart        CheckoutStep = "cart"
	StepShipping    CheckoutStep = "shipping"
	StepPayment     CheckoutStep = "payment"
	StepOrderPlaced CheckoutStep = "order_placed"
)

// Shipping pricing policy. Orders at or above the threshold ship free.
const (
	FreeShippingThreshold = 2000.0
	StandardShippingFee   = 50.0
)

// CartItem pairs a product snapshot with a quantity. Quantity is always >= 1
// while the item is in a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the transient, per-session selection of products awaiting purchase.
// Items keep insertion order and hold at most one entry per product id.
type Cart struct {
	Items []CartItem   `json:"items"`
	Step  CheckoutStep `json:"step"`
}

// NewCart returns an empty cart at the initial checkout step.
func NewCart() Cart {
	return Cart{Step: StepCart}
}

// AddItem adds quantity of product to the cart, merging with an existing
// entry for the same product id. Quantities below 1 are treated as 1.
func (c *Cart) AddItem(product Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: product, Quantity: quantity})
}

// UpdateQuantity adjusts the quantity of the item with the given product id
// by delta, clamping at 1. Unknown product ids are a no-op; removal is only
// possible through RemoveItem.
func (c *Cart) UpdateQuantity(productID string, delta int) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			q := c.Items[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			c.Items[i].Quantity = q
			return
		}
	}
}

// RemoveItem deletes the entry for productID if present.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart and resets the checkout step.
func (c *Cart) Clear() {
	c.Items = nil
	c.Step = StepCart
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count returns the total number of units across all items.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Subtotal is the sum of price x quantity over all items.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Product.Price * float64(item.Quantity)
	}
	return sum
}

// ShippingFee is zero once the subtotal reaches the free-shipping threshold,
// otherwise the flat standard fee.
func (c *Cart) ShippingFee() float64 {
	if c.Subtotal() >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingFee
}

// Total is subtotal plus shipping fee.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.ShippingFee()
}

// ShippingInfo is the delivery address collected during checkout. All fields
// are required before the payment step is reachable.
type ShippingInfo struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// MissingFields lists the names of required shipping fields that are empty.
func (s ShippingInfo) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(s.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "address")
	}
	return missing
}

// Complete reports whether every required field is filled in.
func (s ShippingInfo) Complete() bool {
	return len(s.MissingFields()) == 0
}

// PaymentInfo holds card details for the simulated gateway. It exists only for
// the duration of checkout and is never persisted. CardNumber and Expiry hold
// raw digits; the Formatted helpers produce the display representation.
type PaymentInfo struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVC            string `json:"cvc"`
}

const maxCardDigits = 16

// Normalize sanitizes all fields in place: digits only for card number,
// expiry and CVC with their maximum lengths, uppercase cardholder name.
func (p *PaymentInfo) Normalize() {
	p.CardholderName = strings.ToUpper(strings.TrimSpace(p.CardholderName))
	p.CardNumber = truncateDigits(p.CardNumber, maxCardDigits)
	p.Expiry = truncateDigits(p.Expiry, 4)
	p.CVC = truncateDigits(p.CVC, 3)
}

// FormattedCardNumber groups the digits in blocks of 4 separated by spaces,
// e.g. "4242424242424242" -> "4242 4242 4242 4242".
func (p PaymentInfo) FormattedCardNumber() string {
	digits := truncateDigits(p.CardNumber, maxCardDigits)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormattedExpiry inserts the MM/YY slash once at least two digits are
// present, e.g. "1225" -> "12/25", "1" -> "1".
func (p PaymentInfo) FormattedExpiry() string {
	digits := truncateDigits(p.Expiry, 4)
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// Valid reports whether the card details gate the submit action: a non-empty
// cardholder name and exactly 16 card digits. There is no Luhn check and no
// expiry validity check; the gateway is simulated.
func (p PaymentInfo) Valid() bool {
	name := strings.TrimSpace(p.CardholderName)
	return name != "" && len(truncateDigits(p.CardNumber, maxCardDigits)) == maxCardDigits
}

func truncateDigits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}

// CartSnapshot is the persisted form of the cart, restored at startup so the
// selection survives reloads. Shipping and payment details are not part of it.
type CartSnapshot struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Items     []CartItem   `json:"items" gorm:"serializer:json"`
	Step      CheckoutStep `json:"step"`
	UpdatedAt time.Time    `json:"updated_at"`
}
