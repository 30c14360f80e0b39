// Package gateway provides payment gateway implementations. The only one in
// the tree is a simulator; real processors plug in behind contracts.Gateway.
package gateway

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
)

// Decline reasons rotated by the simulator.
var declineReasons = []string{
	"insufficient funds",
	"card declined by issuer",
	"payment gateway timeout",
}

// Simulated approves a configurable fraction of charge attempts at random,
// minting TXN- transaction ids for approvals. The rand source is injected so
// tests can force either outcome.
type Simulated struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

// NewSimulated creates a simulator approving successRate (0..1) of attempts.
func NewSimulated(successRate float64, rng *rand.Rand) *Simulated {
	return &Simulated{
		rng:         rng,
		successRate: successRate,
	}
}

// Authorize decides the charge outcome. It never returns an error; a real
// gateway would, on network trouble.
func (s *Simulated) Authorize(ctx context.Context, orderNumber string, amount decimal.Decimal) (*contracts.Authorization, error) {
	s.mu.Lock()
	roll := s.rng.Float64()
	var reason string
	if roll >= s.successRate {
		reason = declineReasons[s.rng.Intn(len(declineReasons))]
	}
	s.mu.Unlock()

	if reason != "" {
		return &contracts.Authorization{
			Approved:      false,
			DeclineReason: reason,
		}, nil
	}

	return &contracts.Authorization{
		Approved:      true,
		TransactionID: newTransactionID(),
	}, nil
}

func newTransactionID() string {
	return "TXN-" + strings.ToUpper(uuid.New().String()[:8])
}
