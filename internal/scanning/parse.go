package scanning

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rawReceiptData mirrors ReceiptData but tolerates numbers where strings are expected;
// models frequently emit amounts as JSON numbers.
type rawReceiptData struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Total        any    `json:"total"`
	Items        []struct {
		ShortDescription string `json:"shortDescription"`
		Price            any    `json:"price"`
	} `json:"items"`
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

var timeFormats = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04 pm",
	"3:04pm",
}

// extractJSONObject strips code fences and surrounding prose from a model response
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return "", fmt.Errorf("invalid JSON object in response")
	}
	return text[startIdx : endIdx+1], nil
}

// parseReceiptJSON parses a model response into ReceiptData. Fields that cannot be
// normalized are passed through unchanged so receipt validation reports them.
func parseReceiptJSON(text string) (*ReceiptData, error) {
	object, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var raw rawReceiptData
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data := &ReceiptData{
		Retailer:     strings.TrimSpace(raw.Retailer),
		PurchaseDate: normalizeDate(raw.PurchaseDate),
		PurchaseTime: normalizeTime(raw.PurchaseTime),
		Total:        normalizeAmount(raw.Total),
		Items:        make([]ItemData, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		data.Items = append(data.Items, ItemData{
			ShortDescription: item.ShortDescription,
			Price:            normalizeAmount(item.Price),
		})
	}
	return data, nil
}

func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	for _, format := range dateFormats {
		if d, err := time.Parse(format, value); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return value
}

func normalizeTime(value string) string {
	value = strings.TrimSpace(value)
	for _, format := range timeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.Format("15:04")
		}
	}
	return value
}

// normalizeAmount renders a JSON number or a currency string as a plain decimal string
func normalizeAmount(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.Contains(s, ".") {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
		return s
	default:
		return ""
	}
}
