// Package payment holds the payment-method strategies used by checkout.
// Every strategy delegates to a shared Gateway; the production gateway is
// a mock with configurable success odds, and tests swap it wholesale.
package payment

import (
	"log"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Method tags accepted by the checkout endpoint.
const (
	MethodCreditCard   = "credit_card"
	MethodPayPal       = "paypal"
	MethodBankTransfer = "bank_transfer"
)

// Strategy charges a user for an order total. A false result with a nil
// error means the gateway declined; an error means the attempt itself
// failed, which checkout also treats as declined.
type Strategy interface {
	ProcessPayment(userID int64, amount float64) (bool, error)
}

// Gateway is the shared backend the strategies charge against.
type Gateway interface {
	Charge(userID int64, amount float64, method string) (bool, error)
}

// Selector maps a method tag to a strategy, or nil for unknown tags.
type Selector interface {
	Select(tag string) Strategy
}

// Refunder is the optional reverse capability of a strategy. Checkout uses
// it to hand a charge back after a late failure; strategies without it get
// the refund logged for manual handling instead.
type Refunder interface {
	Refund(userID int64, amount float64) error
}

type strategy struct {
	gw     Gateway
	method string
}

func (s strategy) ProcessPayment(userID int64, amount float64) (bool, error) {
	return s.gw.Charge(userID, amount, s.method)
}

// NewSelector builds a Selector dispatching the three known tags onto gw.
func NewSelector(gw Gateway) Selector {
	return selector{gw: gw}
}

type selector struct {
	gw Gateway
}

func (s selector) Select(tag string) Strategy {
	switch tag {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer:
		return strategy{gw: s.gw, method: tag}
	}
	return nil
}

// MockGateway approves charges with a configurable probability. Refusals
// below are deterministic so tests can rely on them:
// zero or negative user id, non-positive amount, amount below 1.00, or an
// unknown method tag.
type MockGateway struct {
	SuccessProbability float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockGateway seeds the gateway with the given approval probability,
// clamped to [0,1].
func NewMockGateway(successProbability float64, seed int64) *MockGateway {
	if successProbability < 0 {
		successProbability = 0
	}
	if successProbability > 1 {
		successProbability = 1
	}
	return &MockGateway{
		SuccessProbability: successProbability,
		rnd:                rand.New(rand.NewSource(seed)),
	}
}

func (g *MockGateway) Charge(userID int64, amount float64, method string) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	if amount <= 0 || amount < 1.00 {
		return false, nil
	}
	switch method {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer:
	default:
		return false, nil
	}

	g.mu.Lock()
	ok := g.rnd.Float64() < g.SuccessProbability
	g.mu.Unlock()
	if ok {
		// Charge reference for operator correlation; the mock has no real
		// backend, so this is the only trace of the charge.
		log.Printf("payment: charged user=%d amount=%.1f method=%s ref=%s", userID, amount, method, uuid.NewString())
	}
	return ok, nil
}
