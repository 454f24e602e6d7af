package infrastructure

import (
	"math/rand"
)

// RandEntropySource backs the carrier simulation with the shared math/rand
// source, which is safe for concurrent use.
type RandEntropySource struct{}

// NewRandEntropySource creates a new RandEntropySource
func NewRandEntropySource() *RandEntropySource {
	return &RandEntropySource{}
}

// Intn returns a non-negative pseudo-random number in [0, n)
func (s *RandEntropySource) Intn(n int) int {
	return rand.Intn(n)
}
