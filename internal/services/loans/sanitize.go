// Package loans normalizes heterogeneous tenant loan records and renders
// member-facing summaries from them.
package loans

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// InfoType selects which aspect of a loan an answer should cover.
type InfoType string

const (
	// InfoStatus asks about approval/disbursement state.
	InfoStatus InfoType = "STATUS"
	// InfoAmount asks about the outstanding amount or balance.
	InfoAmount InfoType = "AMOUNT"
	// InfoPayment asks about the next payment or due date.
	InfoPayment InfoType = "PAYMENT"
	// InfoEligibility asks whether the member can borrow (more).
	InfoEligibility InfoType = "ELIGIBILITY"
	// InfoHistory asks about past loans or payments.
	InfoHistory InfoType = "HISTORY"
	// InfoDetails is the catch-all full summary.
	InfoDetails InfoType = "DETAILS"
)

// ParseInfoType maps free text to an info type, defaulting to DETAILS for
// anything unrecognized.
func ParseInfoType(s string) InfoType {
	switch InfoType(strings.ToUpper(strings.TrimSpace(s))) {
	case InfoStatus:
		return InfoStatus
	case InfoAmount:
		return InfoAmount
	case InfoPayment:
		return InfoPayment
	case InfoEligibility:
		return InfoEligibility
	case InfoHistory:
		return InfoHistory
	default:
		return InfoDetails
	}
}

// timestampLayouts are tried in order when canonicalizing date-like fields.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// SanitizeRecord normalizes one tenant-defined record:
//   - null/absent values are dropped;
//   - fields whose key contains "date" or "time" are re-emitted as RFC 3339
//     timestamps when parsable, untouched otherwise;
//   - fields whose key contains "amount", "payment" or "balance" are coerced
//     to a fixed two-decimal numeric string.
func SanitizeRecord(rec models.LoanRecord) models.LoanRecord {
	out := models.LoanRecord{}
	for _, f := range rec.Fields {
		if f.Value == nil {
			continue
		}
		key := strings.ToLower(f.Key)
		value := f.Value

		switch {
		case strings.Contains(key, "date") || strings.Contains(key, "time"):
			if ts, ok := canonicalTimestamp(value); ok {
				value = ts
			}
		case strings.Contains(key, "amount") || strings.Contains(key, "payment") || strings.Contains(key, "balance"):
			if num, ok := twoDecimal(value); ok {
				value = num
			}
		}

		out.Fields = append(out.Fields, models.LoanField{Key: f.Key, Value: value})
	}
	return out
}

// SanitizeData maps SanitizeRecord over every record in the payload.
func SanitizeData(data models.LoanData) models.LoanData {
	out := models.LoanData{Records: make([]models.LoanRecord, 0, len(data.Records))}
	for _, rec := range data.Records {
		out.Records = append(out.Records, SanitizeRecord(rec))
	}
	return out
}

// canonicalTimestamp parses a date-like value and re-emits it as RFC 3339.
func canonicalTimestamp(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}

// twoDecimal coerces a numeric value to a fixed two-decimal string.
func twoDecimal(v interface{}) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return fmt.Sprintf("%.2f", f), true
		}
	case float64:
		return fmt.Sprintf("%.2f", n), true
	case int:
		return fmt.Sprintf("%.2f", float64(n)), true
	case int64:
		return fmt.Sprintf("%.2f", float64(n)), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return fmt.Sprintf("%.2f", f), true
		}
	}
	return "", false
}
