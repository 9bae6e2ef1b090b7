package receipt

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Bonus window for afternoon purchases: [14:00, 16:00)
var (
	afternoonStart = 14 * time.Hour
	afternoonEnd   = 16 * time.Hour
)

// scoredItem is a line item whose price has been validated
type scoredItem struct {
	description string
	price       decimal.Decimal
}

// scoredReceipt is a receipt whose numeric, date and time fields have been validated
type scoredReceipt struct {
	retailer  string
	day       int
	timeOfDay time.Duration
	clock     time.Time
	total     decimal.Decimal
	items     []scoredItem
}

// rule awards points for one aspect of a receipt and explains each award
type rule func(r *scoredReceipt) (int, []string)

// rules are evaluated in this order and the breakdown follows it
var rules = []rule{
	retailerNameRule,
	roundDollarRule,
	quarterMultipleRule,
	itemPairsRule,
	itemDescriptionRule,
	oddDayRule,
	afternoonRule,
}

// Score computes the points for a receipt. It returns a *ValidationError when the
// total, an item price, the purchase date or the purchase time is malformed.
func Score(r Receipt) (ScoreResult, error) {
	parsed, err := parseReceipt(r)
	if err != nil {
		return ScoreResult{}, err
	}

	result := ScoreResult{Breakdown: make([]string, 0, len(rules))}
	for _, rule := range rules {
		points, lines := rule(parsed)
		result.Points += points
		result.Breakdown = append(result.Breakdown, lines...)
	}
	return result, nil
}

func parseReceipt(r Receipt) (*scoredReceipt, error) {
	total, err := ParseAmount("total", r.Total)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, r.PurchaseDate)
	if err != nil {
		return nil, &ValidationError{Field: "purchaseDate", Value: r.PurchaseDate, Reason: "must be a date in YYYY-MM-DD format"}
	}

	if !timePattern.MatchString(r.PurchaseTime) {
		return nil, &ValidationError{Field: "purchaseTime", Value: r.PurchaseTime, Reason: "must be a 24-hour time in HH:MM format"}
	}
	clock, err := time.Parse(timeLayout, r.PurchaseTime)
	if err != nil {
		return nil, &ValidationError{Field: "purchaseTime", Value: r.PurchaseTime, Reason: "must be a 24-hour time in HH:MM format"}
	}

	items := make([]scoredItem, 0, len(r.Items))
	for i, item := range r.Items {
		price, err := ParseAmount(fmt.Sprintf("items[%d].price", i), item.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, scoredItem{description: item.ShortDescription, price: price})
	}

	return &scoredReceipt{
		retailer:  r.Retailer,
		day:       date.Day(),
		timeOfDay: time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute,
		clock:     clock,
		total:     total,
		items:     items,
	}, nil
}

// One point for every ASCII letter or digit in the retailer name
func retailerNameRule(r *scoredReceipt) (int, []string) {
	count := 0
	for i := 0; i < len(r.retailer); i++ {
		c := r.retailer[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return count, []string{fmt.Sprintf("%d points - retailer name has %d characters", count, count)}
}

func roundDollarRule(r *scoredReceipt) (int, []string) {
	if !isRoundDollar(r.total) {
		return 0, nil
	}
	return 50, []string{"50 points - total is a round dollar amount"}
}

func quarterMultipleRule(r *scoredReceipt) (int, []string) {
	if !isQuarterMultiple(r.total) {
		return 0, nil
	}
	return 25, []string{"25 points - total is a multiple of 0.25"}
}

// Five points for every two items
func itemPairsRule(r *scoredReceipt) (int, []string) {
	pairs := len(r.items) / 2
	if pairs == 0 {
		return 0, nil
	}
	points := pairs * 5
	return points, []string{fmt.Sprintf("%d points - %d items (%d pairs @ 5 points each)", points, pairs*2, pairs)}
}

// Items whose trimmed description length is a multiple of three earn
// 20% of their price, rounded up to the next whole point
func itemDescriptionRule(r *scoredReceipt) (int, []string) {
	total := 0
	var lines []string
	for _, item := range r.items {
		description := strings.TrimSpace(item.description)
		length := utf8.RuneCountInString(description)
		if length == 0 || length%3 != 0 {
			continue
		}

		product := item.price.Mul(itemPriceRate)
		points := int(product.Ceil().IntPart())
		total += points
		lines = append(lines, fmt.Sprintf(
			"%d points - \"%s\" is %d characters (a multiple of 3)\n             item price of %s * 0.2 = %s, rounded up is %d points",
			points, description, length, item.price.StringFixed(2), product.String(), points,
		))
	}
	return total, lines
}

func oddDayRule(r *scoredReceipt) (int, []string) {
	if r.day%2 == 0 {
		return 0, nil
	}
	return 6, []string{"6 points - purchase day is odd"}
}

func afternoonRule(r *scoredReceipt) (int, []string) {
	if r.timeOfDay < afternoonStart || r.timeOfDay >= afternoonEnd {
		return 0, nil
	}
	return 10, []string{fmt.Sprintf("10 points - %s is between 2:00pm and 4:00pm", r.clock.Format("3:04PM"))}
}
