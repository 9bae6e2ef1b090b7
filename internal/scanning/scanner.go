package scanning

// ItemData is a line item read from a receipt image
type ItemData struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// ReceiptData contains the purchase details extracted from a receipt image.
// Amounts are decimal strings and the date and time use the API wire formats
// (YYYY-MM-DD and 24 hour HH:MM) so the data can be scored directly.
type ReceiptData struct {
	Retailer     string     `json:"retailer"`
	PurchaseDate string     `json:"purchaseDate"`
	PurchaseTime string     `json:"purchaseTime"`
	Total        string     `json:"total"`
	Items        []ItemData `json:"items"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts its purchase details
	ScanReceipt(imageData []byte, contentType string) (*ReceiptData, error)
	// Close closes the scanner and releases resources
	Close() error
}
