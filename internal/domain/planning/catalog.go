package planning

import (
	"github.com/shopspring/decimal"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// RecipeLine is one ingredient of a product's technical sheet, with the
// quantity needed per produced unit
type RecipeLine struct {
	Material     shared.RawMaterial
	UnitQuantity decimal.Decimal
}

// Recipe is the technical sheet of a product: an ordered ingredient list
type Recipe struct {
	ProductType shared.ProductType
	Name        string
	Lines       []RecipeLine
}

// Catalog is the static bill-of-materials lookup. Pure and total: unknown
// product types fall back to the generic base recipe, the lookup never fails.
type Catalog struct {
	recipes map[shared.ProductType]Recipe
	base    Recipe
}

// Base ingredient references shared across recipes
var (
	materialFlour       = shared.RawMaterial{MaterialID: "RM-001", Name: "Flour Type 65"}
	materialYeast       = shared.RawMaterial{MaterialID: "RM-002", Name: "Baker's Yeast"}
	materialCheese      = shared.RawMaterial{MaterialID: "RM-003", Name: "Mozzarella Cheese"}
	materialPepperoni   = shared.RawMaterial{MaterialID: "RM-004", Name: "Sliced Pepperoni"}
	materialHam         = shared.RawMaterial{MaterialID: "RM-005", Name: "Ham"}
	materialVegetables  = shared.RawMaterial{MaterialID: "RM-006", Name: "Mixed Vegetables"}
	materialTomatoSauce = shared.RawMaterial{MaterialID: "RM-007", Name: "Tomato Sauce"}
)

func line(material shared.RawMaterial, units int64) RecipeLine {
	return RecipeLine{Material: material, UnitQuantity: decimal.NewFromInt(units)}
}

// NewCatalog builds the catalog with the factory's standard recipes
func NewCatalog() *Catalog {
	recipes := map[shared.ProductType]Recipe{
		shared.ProductPepperoni: {
			ProductType: shared.ProductPepperoni,
			Name:        "Pepperoni Pizza",
			Lines: []RecipeLine{
				line(materialFlour, 1),
				line(materialTomatoSauce, 1),
				line(materialCheese, 1),
				line(materialPepperoni, 2),
			},
		},
		shared.ProductFourCheeses: {
			ProductType: shared.ProductFourCheeses,
			Name:        "Four Cheeses Pizza",
			Lines: []RecipeLine{
				line(materialFlour, 1),
				line(materialTomatoSauce, 1),
				line(materialCheese, 3),
			},
		},
		shared.ProductVegetarian: {
			ProductType: shared.ProductVegetarian,
			Name:        "Vegetarian Pizza",
			Lines: []RecipeLine{
				line(materialFlour, 1),
				line(materialTomatoSauce, 1),
				line(materialVegetables, 2),
			},
		},
		shared.ProductCheeseColdCuts: {
			ProductType: shared.ProductCheeseColdCuts,
			Name:        "Cheese and Cold Cuts Pizza",
			Lines: []RecipeLine{
				line(materialFlour, 1),
				line(materialTomatoSauce, 1),
				line(materialCheese, 1),
				line(materialHam, 2),
			},
		},
	}

	base := Recipe{
		Name: "Base Dough",
		Lines: []RecipeLine{
			line(materialFlour, 1),
			line(materialYeast, 1),
		},
	}

	return &Catalog{recipes: recipes, base: base}
}

// Materials lists every distinct raw material referenced by the catalog,
// base recipe included, in a stable order. Used for stock seeding.
func (c *Catalog) Materials() []shared.RawMaterial {
	return []shared.RawMaterial{
		materialFlour,
		materialYeast,
		materialCheese,
		materialPepperoni,
		materialHam,
		materialVegetables,
		materialTomatoSauce,
	}
}

// RequirementsFor returns the technical sheet for a product type.
// Unknown types get the generic base recipe.
func (c *Catalog) RequirementsFor(productType shared.ProductType) Recipe {
	if recipe, ok := c.recipes[productType]; ok {
		return recipe
	}
	base := c.base
	base.ProductType = productType
	return base
}
