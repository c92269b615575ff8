package services

import (
	"context"
	"time"

	"eclat/internal/models"
)

// PaymentOutcome is the terminal result of a gateway charge attempt.
type PaymentOutcome string

const (
	PaymentApproved PaymentOutcome = "approved"
	PaymentDeclined PaymentOutcome = "declined"
	PaymentTimedOut PaymentOutcome = "timed_out"
)

// PaymentResult carries the outcome of a charge and, for non-approved
// outcomes, a human-readable reason.
type PaymentResult struct {
	Outcome PaymentOutcome
	Reason  string
}

// PaymentGateway abstracts the payment processor so checkout can be exercised
// against declined and timed-out outcomes in tests without a flaky external
// mock.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, card models.PaymentInfo) (PaymentResult, error)
}

// Round-trip latency of the simulated processor.
const simulatedGatewayDelay = 2500 * time.Millisecond

// SimulatedGateway stands in for a real processor. It approves every charge
// after a fixed artificial delay; a charge whose context expires first is
// reported as timed out.
type SimulatedGateway struct {
	Delay time.Duration
}

// NewSimulatedGateway returns a gateway with the standard simulated delay.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{Delay: simulatedGatewayDelay}
}

// Charge waits out the simulated round trip and approves.
func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, card models.PaymentInfo) (PaymentResult, error) {
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return PaymentResult{Outcome: PaymentTimedOut, Reason: "gateway did not respond in time"}, nil
	case <-timer.C:
		return PaymentResult{Outcome: PaymentApproved}, nil
	}
}
