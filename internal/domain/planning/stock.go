package planning

import (
	"context"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// StockOracle answers point-in-time availability questions for a material.
// External collaborator: warehouse system, inventory table, or a test double.
type StockOracle interface {
	InStock(ctx context.Context, materialID string, quantity int64) (bool, error)
}

// Shortage reports one material that cannot be served from stock
type Shortage struct {
	Material shared.RawMaterial `json:"rawMaterial"`
	Needed   int64              `json:"needed"`
}

// StockGate decides overall availability for a requirement list
type StockGate struct {
	oracle StockOracle
}

// NewStockGate creates a stock gate backed by the given oracle
func NewStockGate(oracle StockOracle) *StockGate {
	return &StockGate{oracle: oracle}
}

// CheckAvailability queries the oracle for every requirement. Any single
// shortage flips the overall result to unavailable but does not
// short-circuit: all shortages are collected so the caller gets the
// complete report in one pass. No retries here; that is the caller's call.
func (g *StockGate) CheckAvailability(ctx context.Context, requirements []MaterialRequirement) (bool, []Shortage, error) {
	allAvailable := true
	var shortages []Shortage

	for _, req := range requirements {
		available, err := g.oracle.InStock(ctx, req.Material.MaterialID, req.Quantity)
		if err != nil {
			return false, nil, err
		}
		if !available {
			allAvailable = false
			shortages = append(shortages, Shortage{Material: req.Material, Needed: req.Quantity})
		}
	}

	return allAvailable, shortages, nil
}
