package shared

// ProductType identifies the kind of pizza a batch or order line refers to
type ProductType string

const (
	ProductFourCheeses    ProductType = "FOUR_CHEESES"
	ProductVegetarian     ProductType = "VEGETARIAN"
	ProductCheeseColdCuts ProductType = "CHEESE_COLD_CUTS"
	ProductPepperoni      ProductType = "PEPPERONI"
)

// KnownProductTypes lists the product types with a dedicated recipe.
// Unknown types fall back to the generic base recipe, they are never rejected.
var KnownProductTypes = []ProductType{
	ProductFourCheeses,
	ProductVegetarian,
	ProductCheeseColdCuts,
	ProductPepperoni,
}

// IsKnown reports whether the product type has a dedicated recipe
func (p ProductType) IsKnown() bool {
	for _, known := range KnownProductTypes {
		if p == known {
			return true
		}
	}
	return false
}
