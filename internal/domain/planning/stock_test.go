package planning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// mapOracle answers from a fixed stock table; materials absent from the
// table are out of stock
type mapOracle struct {
	levels map[string]int64
	err    error
	calls  []string
}

func (o *mapOracle) InStock(_ context.Context, materialID string, quantity int64) (bool, error) {
	o.calls = append(o.calls, materialID)
	if o.err != nil {
		return false, o.err
	}
	return o.levels[materialID] >= quantity, nil
}

func someRequirements() []planning.MaterialRequirement {
	return []planning.MaterialRequirement{
		{Material: shared.RawMaterial{MaterialID: "RM-001", Name: "Flour Type 65"}, Quantity: 10},
		{Material: shared.RawMaterial{MaterialID: "RM-003", Name: "Mozzarella Cheese"}, Quantity: 5},
		{Material: shared.RawMaterial{MaterialID: "RM-004", Name: "Sliced Pepperoni"}, Quantity: 8},
	}
}

func TestCheckAvailability_AllInStock(t *testing.T) {
	oracle := &mapOracle{levels: map[string]int64{"RM-001": 100, "RM-003": 100, "RM-004": 100}}
	gate := planning.NewStockGate(oracle)

	available, shortages, err := gate.CheckAvailability(context.Background(), someRequirements())

	require.NoError(t, err)
	assert.True(t, available)
	assert.Empty(t, shortages)
}

func TestCheckAvailability_CollectsEveryShortage(t *testing.T) {
	// Two of three materials are short; the gate must not short-circuit
	// after the first one.
	oracle := &mapOracle{levels: map[string]int64{"RM-003": 100}}
	gate := planning.NewStockGate(oracle)

	available, shortages, err := gate.CheckAvailability(context.Background(), someRequirements())

	require.NoError(t, err)
	assert.False(t, available)
	require.Len(t, shortages, 2)
	assert.Equal(t, "RM-001", shortages[0].Material.MaterialID)
	assert.EqualValues(t, 10, shortages[0].Needed)
	assert.Equal(t, "RM-004", shortages[1].Material.MaterialID)
	assert.Len(t, oracle.calls, 3, "every requirement must be checked")
}

func TestCheckAvailability_PropagatesOracleErrors(t *testing.T) {
	oracle := &mapOracle{err: errors.New("warehouse unreachable")}
	gate := planning.NewStockGate(oracle)

	_, _, err := gate.CheckAvailability(context.Background(), someRequirements())

	assert.Error(t, err)
}
