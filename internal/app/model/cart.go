package model

// CartLine is the persisted form of one cart entry. It is the only data the
// client owns; product details are always resolved fresh from the catalog.
// Quantities are in kilograms, minimum 0.5 in steps of 0.5 (enforced at the
// UI boundary).
type CartLine struct {
	SKU        string  `json:"sku"`
	QuantityKg float64 `json:"quantity_kg"`
}

// EnrichedLine is a CartLine joined with its resolved product plus the
// derived line total (price per kg times quantity).
type EnrichedLine struct {
	CartLine
	Product Product `json:"product"`
	Total   float64 `json:"total"`
}
