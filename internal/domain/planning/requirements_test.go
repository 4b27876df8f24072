package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

func newCalculator() *planning.Calculator {
	return planning.NewCalculator(planning.NewCatalog())
}

func testOrder(items ...planning.LineItem) planning.Order {
	return planning.Order{
		OrderID:   "ORD-1001",
		OrderDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    "received",
		Items:     items,
	}
}

func quantityOf(t *testing.T, reqs []planning.MaterialRequirement, name string) int64 {
	t.Helper()
	for _, req := range reqs {
		if req.Material.Name == name {
			return req.Quantity
		}
	}
	t.Fatalf("no requirement for %s", name)
	return 0
}

func TestComputeRequirements_PepperoniTimesFour(t *testing.T) {
	// Arrange
	calc := newCalculator()
	order := testOrder(planning.LineItem{ProductType: shared.ProductPepperoni, Quantity: 4})

	// Act
	reqs, err := calc.ComputeRequirements(order)

	// Assert
	require.NoError(t, err)
	assert.Len(t, reqs, 4)
	assert.EqualValues(t, 4, quantityOf(t, reqs, "Flour Type 65"))
	assert.EqualValues(t, 4, quantityOf(t, reqs, "Tomato Sauce"))
	assert.EqualValues(t, 4, quantityOf(t, reqs, "Mozzarella Cheese"))
	assert.EqualValues(t, 8, quantityOf(t, reqs, "Sliced Pepperoni"))
}

func TestComputeRequirements_AggregatesSharedMaterials(t *testing.T) {
	// Flour and tomato sauce appear in both recipes and must be summed
	// by material identity, not duplicated per line item.
	calc := newCalculator()
	order := testOrder(
		planning.LineItem{ProductType: shared.ProductPepperoni, Quantity: 2},
		planning.LineItem{ProductType: shared.ProductFourCheeses, Quantity: 3},
	)

	reqs, err := calc.ComputeRequirements(order)

	require.NoError(t, err)
	assert.EqualValues(t, 5, quantityOf(t, reqs, "Flour Type 65"))
	assert.EqualValues(t, 5, quantityOf(t, reqs, "Tomato Sauce"))
	// 2x1 from pepperoni plus 3x3 from four cheeses
	assert.EqualValues(t, 11, quantityOf(t, reqs, "Mozzarella Cheese"))
	assert.EqualValues(t, 4, quantityOf(t, reqs, "Sliced Pepperoni"))

	seen := make(map[string]int)
	for _, req := range reqs {
		seen[req.Material.MaterialID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "material %s duplicated", id)
	}
}

func TestComputeRequirements_UnknownTypeUsesBaseRecipe(t *testing.T) {
	calc := newCalculator()
	order := testOrder(planning.LineItem{ProductType: "CALZONE", Quantity: 2})

	reqs, err := calc.ComputeRequirements(order)

	require.NoError(t, err)
	assert.Len(t, reqs, 2)
	assert.EqualValues(t, 2, quantityOf(t, reqs, "Flour Type 65"))
	assert.EqualValues(t, 2, quantityOf(t, reqs, "Baker's Yeast"))
}

func TestComputeRequirements_NeverUnderCounts(t *testing.T) {
	// The requirement for every material is at least the naive
	// unit-quantity times ordered-quantity product.
	calc := newCalculator()
	catalog := planning.NewCatalog()

	for _, productType := range shared.KnownProductTypes {
		for _, quantity := range []int{1, 3, 7, 50} {
			order := testOrder(planning.LineItem{ProductType: productType, Quantity: quantity})
			reqs, err := calc.ComputeRequirements(order)
			require.NoError(t, err)

			recipe := catalog.RequirementsFor(productType)
			for _, recipeLine := range recipe.Lines {
				naive := recipeLine.UnitQuantity.IntPart() * int64(quantity)
				got := quantityOf(t, reqs, recipeLine.Material.Name)
				assert.GreaterOrEqual(t, got, naive,
					"%s x%d under-counts %s", productType, quantity, recipeLine.Material.Name)
			}
		}
	}
}

func TestComputeRequirements_RejectsBadOrders(t *testing.T) {
	calc := newCalculator()

	_, err := calc.ComputeRequirements(testOrder())
	assert.Error(t, err, "empty order must be rejected")

	_, err = calc.ComputeRequirements(testOrder(
		planning.LineItem{ProductType: shared.ProductPepperoni, Quantity: 0},
	))
	var inputErr *shared.InputError
	assert.ErrorAs(t, err, &inputErr, "zero quantity must be rejected as bad input")

	_, err = calc.ComputeRequirements(testOrder(
		planning.LineItem{ProductType: shared.ProductPepperoni, Quantity: -2},
	))
	assert.Error(t, err, "negative quantity must be rejected")
}
