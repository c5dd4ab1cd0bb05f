package model

// CartLine はカートの明細。
// LineID はリモートカートが採番したID（未同期の明細は0）。
// UnitPrice は追加時点の価格を必ず保存。
type CartLine struct {
	LineID    int64          `json:"line_id,omitempty"`
	Product   ProductSummary `json:"product"`
	Quantity  int64          `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
}

// Subtotal は明細の小計。
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * l.Quantity
}
