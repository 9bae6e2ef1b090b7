package receipt

// Item is a single purchased product on a receipt
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"` // Decimal string, e.g. "6.49"
}

// Receipt is a purchase record as submitted by a caller
type Receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"` // YYYY-MM-DD
	PurchaseTime string `json:"purchaseTime"` // HH:MM, 24 hour clock
	Total        string `json:"total"`        // Decimal string, e.g. "35.35"
	Items        []Item `json:"items"`
}

// ScoreResult holds the points awarded to a receipt and the reason for each contribution
type ScoreResult struct {
	Points    int      `json:"points"`
	Breakdown []string `json:"breakdown"`
}

// Record is a stored receipt together with its computed score
type Record struct {
	ID      string      `json:"id"`
	Receipt Receipt     `json:"receipt"`
	Score   ScoreResult `json:"score"`
}

// SubmitResponse is returned after a receipt has been processed
type SubmitResponse struct {
	ID string `json:"id"`
}

// clone returns a deep copy so stored records never share slices with callers
func (r Receipt) clone() Receipt {
	c := r
	if r.Items != nil {
		c.Items = make([]Item, len(r.Items))
		copy(c.Items, r.Items)
	}
	return c
}

func (s ScoreResult) clone() ScoreResult {
	c := s
	if s.Breakdown != nil {
		c.Breakdown = make([]string, len(s.Breakdown))
		copy(c.Breakdown, s.Breakdown)
	}
	return c
}
