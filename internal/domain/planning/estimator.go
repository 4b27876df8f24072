package planning

import (
	"math/rand"
	"time"
)

// maxProductionDays bounds the delivery estimate window
const maxProductionDays = 14

// LoadSource reports how many production days the current factory load
// adds to an order. External collaborator; seeded or fixed in tests.
type LoadSource interface {
	ProductionDays(max int) int
}

// Estimator produces a bounded delivery-date estimate
type Estimator struct {
	load LoadSource
}

// NewEstimator creates a delivery estimator backed by the load source
func NewEstimator(load LoadSource) *Estimator {
	return &Estimator{load: load}
}

// Estimate returns a delivery date between today and today+14 days.
// Out-of-range load answers are clamped into the window.
func (e *Estimator) Estimate(today time.Time) time.Time {
	days := e.load.ProductionDays(maxProductionDays)
	if days < 0 {
		days = 0
	}
	if days > maxProductionDays {
		days = maxProductionDays
	}
	return today.AddDate(0, 0, days)
}

// RandomLoadSource simulates the factory load by drawing a uniform
// number of production days. No MES integration exists for real load
// figures yet, so the estimate mirrors the scheduling simulation.
type RandomLoadSource struct {
	rng *rand.Rand
}

// NewRandomLoadSource creates a load source with its own seeded generator
func NewRandomLoadSource(seed int64) *RandomLoadSource {
	return &RandomLoadSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomLoadSource) ProductionDays(max int) int {
	return s.rng.Intn(max + 1)
}
