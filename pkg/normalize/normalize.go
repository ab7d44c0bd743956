package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one raw input row keyed by column name
type Record map[string]interface{}

// summaryMarker marks a "total" row in the source sheets
const summaryMarker = "جمع"

// Known column name typos in the source sheets
var columnTypos = map[string]string{
	"تاربخ":    "تاریخ",
	"جمع نتاژ": "جمع تناژ",
	"Samole":   "Sample",
}

// CleanNumber strips thousands separators and turns the "/" decimal separator into ".".
// Nil and empty values come back as "".
func CleanNumber(v interface{}) string {
	if v == nil {
		return ""
	}
	s := toString(v)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "/", ".")
	return strings.TrimSpace(s)
}

// ParseFloat cleans v and parses it as a float. The boolean is false for
// missing or non-numeric input.
func ParseFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	s := CleanNumber(v)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NormalizeDate zero-pads month and day of a YYYY/M/D date.
// Anything that is not three slash-separated parts is returned unchanged.
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	return fmt.Sprintf("%s/%s/%s", parts[0], zfill2(parts[1]), zfill2(parts[2]))
}

// CleanTruckNumber drops the ".0" suffix spreadsheets add to numeric cells
func CleanTruckNumber(v interface{}) string {
	if v == nil {
		return ""
	}
	s := toString(v)
	return strings.TrimSuffix(s, ".0")
}

// CalculateCost returns the transport cost for a load. costPerTon is per metric
// ton, so the kilogram tonnage is divided by 1000.
func CalculateCost(tonnageKg, costPerTon float64) float64 {
	cost, _ := decimal.NewFromFloat(tonnageKg).
		Div(decimal.NewFromInt(1000)).
		Mul(decimal.NewFromFloat(costPerTon)).
		Float64()
	return cost
}

// Field returns the first non-empty value among the synonym column names
func Field(r Record, names ...string) interface{} {
	for _, name := range names {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

// FieldString is Field rendered as a trimmed string
func FieldString(r Record, names ...string) string {
	v := Field(r, names...)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

// FixColumnTypos returns a copy of r with known column typos corrected
func FixColumnTypos(r Record) Record {
	fixed := make(Record, len(r))
	for k, v := range r {
		if corrected, ok := columnTypos[k]; ok {
			k = corrected
		}
		fixed[k] = v
	}
	return fixed
}

// IsSummaryRow reports whether any string cell marks the row as a total
func IsSummaryRow(r Record) bool {
	for _, v := range r {
		if s, ok := v.(string); ok && strings.Contains(s, summaryMarker) {
			return true
		}
	}
	return false
}

// IsNullRow reports whether every cell is nil or blank
func IsNullRow(r Record) bool {
	for _, v := range r {
		if v != nil && strings.TrimSpace(toString(v)) != "" {
			return false
		}
	}
	return true
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func zfill2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}
