package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/quickcart/fulfillment-system/payment-service/domain"
	"github.com/quickcart/fulfillment-system/shared/models"
)

// SimulatedGateway stands in for an external payment processor. Approval
// rate and latency come from the injected entropy source, so tests can make
// the outcome deterministic.
type SimulatedGateway struct {
	entropy         domain.EntropySource
	approvalPercent int
	maxLatency      time.Duration
}

// NewSimulatedGateway creates a new SimulatedGateway
func NewSimulatedGateway(entropy domain.EntropySource, approvalPercent int, maxLatency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		entropy:         entropy,
		approvalPercent: approvalPercent,
		maxLatency:      maxLatency,
	}
}

// Authorize simulates an authorization round trip. The context deadline is
// honored: a timeout surfaces as an error, never a hang.
func (g *SimulatedGateway) Authorize(ctx context.Context, orderID models.ID, amount models.Money) (string, error) {
	if g.maxLatency > 0 {
		latency := time.Duration(g.entropy.Intn(int(g.maxLatency.Milliseconds())+1)) * time.Millisecond

		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "gateway authorization timed out")
		}
	}

	if g.entropy.Intn(100) >= g.approvalPercent {
		return "", errors.New("insufficient funds")
	}

	return fmt.Sprintf("txn-%s", models.GenerateUUID()), nil
}
