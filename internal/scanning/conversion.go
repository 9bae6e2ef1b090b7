package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// receiptScanPrompt is shared by all model providers
const receiptScanPrompt = `You are reading a retail purchase receipt. Read every line of text in the image and extract:

1. **retailer**: the store name exactly as printed at the top of the receipt (e.g. "Target", "M&M Corner Market").
2. **purchaseDate**: the transaction date in YYYY-MM-DD format.
3. **purchaseTime**: the transaction time as a 24-hour HH:MM value (2:33 PM becomes "14:33").
4. **total**: the final amount paid, as a decimal string with two decimal places (e.g. "35.35").
5. **items**: every purchased line item, in the order printed, each with
   - "shortDescription": the item text as printed
   - "price": the line price as a decimal string with two decimal places

Return ONLY valid JSON in this exact shape:
{
  "retailer": "Store Name",
  "purchaseDate": "YYYY-MM-DD",
  "purchaseTime": "HH:MM",
  "total": "0.00",
  "items": [
    {"shortDescription": "Item text", "price": "0.00"}
  ]
}

Important:
- Amounts are strings without currency symbols or thousands separators
- Skip subtotal, tax, tender and change lines; they are not items
- If a field cannot be found, use an empty string for it
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// renderPDF renders the first page of a PDF as PNG
func renderPDF(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

// decodeImage decodes HEIC/HEIF with the pure Go decoder and everything else with the
// standard image package
func decodeImage(imageData []byte, mimeType string) (image.Image, error) {
	if isHEIC(imageData, mimeType) {
		img, err := heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("unsupported image format (supported: JPEG, PNG, GIF, HEIC, HEIF, PDF): %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC checks the ftyp box brand at offset 4 and the declared MIME type
func isHEIC(data []byte, mimeType string) bool {
	if strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif") {
		return true
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// toPNG normalizes any supported upload to PNG, which every provider accepts
func toPNG(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	switch {
	case mimeType == "application/pdf":
		data, err := renderPDF(imageData)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return data, nil
	case mimeType == "image/png" && !isHEIC(imageData, mimeType):
		return imageData, nil
	default:
		img, err := decodeImage(imageData, mimeType)
		if err != nil {
			return nil, fmt.Errorf("converting image to PNG: %w", err)
		}
		return encodePNG(img)
	}
}
