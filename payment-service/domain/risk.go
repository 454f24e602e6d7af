package domain

import (
	"github.com/quickcart/fulfillment-system/shared/models"
)

// Risk thresholds
const (
	LowRiskThreshold    = 30
	MediumRiskThreshold = 60
	HighRiskThreshold   = 80

	// maxEntropyPoints bounds the injected non-deterministic component
	maxEntropyPoints = 40
)

// EntropySource supplies the unmodeled risk signals (velocity, device,
// location). Injecting it keeps the scoring decision reproducible in tests.
type EntropySource interface {
	Intn(n int) int
}

// RiskEvaluator scores a payment between 0 and 100. The deterministic
// component depends only on the amount; the entropy component adds at most
// maxEntropyPoints-1, so any amount whose deterministic score alone reaches
// the high-risk threshold is always blocked.
type RiskEvaluator struct {
	entropy EntropySource
}

// NewRiskEvaluator creates a new RiskEvaluator
func NewRiskEvaluator(entropy EntropySource) *RiskEvaluator {
	return &RiskEvaluator{entropy: entropy}
}

// Score calculates the risk score for a payment
func (e *RiskEvaluator) Score(amount models.Money, customerID, orderID models.ID) int {
	score := DeterministicScore(amount)
	score += e.entropy.Intn(maxEntropyPoints)

	if score > 100 {
		score = 100
	}

	return score
}

// ShouldBlock reports whether a score blocks the transaction outright
func (e *RiskEvaluator) ShouldBlock(score int) bool {
	return score >= HighRiskThreshold
}

// DeterministicScore is the amount-only component of the risk score
func DeterministicScore(amount models.Money) int {
	switch {
	case amount.Amount > 500000: // over $5000
		return 50
	case amount.Amount > 100000: // over $1000
		return 30
	case amount.Amount > 50000: // over $500
		return 15
	default:
		return 5
	}
}

// RiskLevel returns a human-readable risk level for a score
func RiskLevel(score int) string {
	switch {
	case score < LowRiskThreshold:
		return "low"
	case score < MediumRiskThreshold:
		return "medium"
	case score < HighRiskThreshold:
		return "high"
	default:
		return "critical"
	}
}
