package shared

// Supplier identifies the provider of a raw material
type Supplier struct {
	SupplierID string `json:"supplierId"`
	Name       string `json:"name"`
}

// RawMaterial is a catalog reference to an ingredient.
// Identity is the material ID; the name and supplier are descriptive only.
type RawMaterial struct {
	MaterialID string    `json:"rawMaterialId"`
	Name       string    `json:"name"`
	Supplier   *Supplier `json:"supplier,omitempty"`
}

// Customer is the client a batch or order is produced for
type Customer struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}
