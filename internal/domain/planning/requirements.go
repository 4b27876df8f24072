package planning

import (
	"github.com/shopspring/decimal"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// MaterialRequirement is a computed (material, total quantity) need.
// Transient computation artifact, not persisted.
type MaterialRequirement struct {
	Material shared.RawMaterial `json:"rawMaterial"`
	Quantity int64              `json:"quantity"`
}

// Calculator derives material requirements from an order and the catalog
type Calculator struct {
	catalog *Catalog
}

// NewCalculator creates a requirement calculator backed by the catalog
func NewCalculator(catalog *Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// ComputeRequirements folds the per-line-item unit requirements scaled by
// the ordered quantity into one consolidated list.
//
// Per line the unit quantity is multiplied by the ordered quantity and
// rounded up to the nearest whole unit: provisioning never under-counts.
// Requirements are then aggregated by material identity, so an ingredient
// shared by several line items appears once with the summed quantity.
func (c *Calculator) ComputeRequirements(order Order) ([]MaterialRequirement, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	var orderOfAppearance []shared.RawMaterial

	for _, item := range order.Items {
		recipe := c.catalog.RequirementsFor(item.ProductType)
		quantity := decimal.NewFromInt(int64(item.Quantity))

		for _, recipeLine := range recipe.Lines {
			needed := recipeLine.UnitQuantity.Mul(quantity).Ceil().IntPart()

			id := recipeLine.Material.MaterialID
			if _, seen := totals[id]; !seen {
				orderOfAppearance = append(orderOfAppearance, recipeLine.Material)
			}
			totals[id] += needed
		}
	}

	requirements := make([]MaterialRequirement, 0, len(orderOfAppearance))
	for _, material := range orderOfAppearance {
		requirements = append(requirements, MaterialRequirement{
			Material: material,
			Quantity: totals[material.MaterialID],
		})
	}
	return requirements, nil
}
