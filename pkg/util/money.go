package util

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// CleanAmount strips thousands separators and whitespace from a raw cell
// value and coerces it to a float. Empty cells, "nan" and non-numeric garbage
// yield 0.0 -- a single bad cell must never abort an ingestion run.
func CleanAmount(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.EqualFold(cleaned, "nan") {
		return 0.0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// ParseNumeric coerces a cell to a float, reporting failure instead of
// defaulting. Quantity columns use this so invalid values can be flagged.
func ParseNumeric(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a monetary value with thousands separators and exactly
// two decimal places, e.g. 1234567.89 -> "1,234,567.89". The report contract
// depends on this byte-for-byte.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}
