package receipt

import (
	"fmt"
	"log/slog"

	"github.com/zombor/receipt-processor/internal/scanning"
)

// Intake turns an uploaded receipt image into a submitted receipt
type Intake struct {
	scanner scanning.Scanner
	store   Store
	archive Storage
}

// NewIntake creates an Intake. archive may be nil to discard uploaded files.
func NewIntake(scanner scanning.Scanner, store Store, archive Storage) *Intake {
	return &Intake{
		scanner: scanner,
		store:   store,
		archive: archive,
	}
}

// Process scans the image, submits the extracted receipt and returns its ID.
// Validation errors from the scanned data are returned unchanged.
func (i *Intake) Process(filename string, data []byte, contentType string) (string, error) {
	scanned, err := i.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return "", fmt.Errorf("scanning receipt: %w", err)
	}

	id, err := i.store.Submit(receiptFromScan(scanned))
	if err != nil {
		return "", err
	}

	if i.archive != nil {
		// The score is already stored, so a failed archive write is only logged
		if _, err := i.archive.Save(archiveName(id, filename), data); err != nil {
			slog.Warn("Failed to archive receipt image", "id", id, "filename", filename, "error", err)
		}
	}
	return id, nil
}

// Close closes the scanner
func (i *Intake) Close() error {
	return i.scanner.Close()
}

func receiptFromScan(data *scanning.ReceiptData) Receipt {
	items := make([]Item, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, Item{ShortDescription: item.ShortDescription, Price: item.Price})
	}
	return Receipt{
		Retailer:     data.Retailer,
		PurchaseDate: data.PurchaseDate,
		PurchaseTime: data.PurchaseTime,
		Total:        data.Total,
		Items:        items,
	}
}
