package entity

// InventoryItem is a stocked supply (feed, chemicals, equipment). Quantity
// is mutated via signed deltas and floored at zero, never set negative.
type InventoryItem struct {
	Meta
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	ReorderPoint float64 `json:"reorderPoint,omitempty"`
	Location     string  `json:"location,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// NeedsReorder reports whether quantity has fallen to the reorder point.
func (i *InventoryItem) NeedsReorder() bool {
	return i.ReorderPoint > 0 && i.Quantity <= i.ReorderPoint
}
