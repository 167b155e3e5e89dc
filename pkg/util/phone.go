package util

import (
	"strconv"
	"strings"
)

const countryPrefix = "880"

// StandardizePhoneNumber canonicalizes a raw phone value into the
// international "+880XXXXXXXXXX" form. Spreadsheet cells sometimes carry the
// number as a float ("1711234567.0"), so fractional artifacts are dropped
// before stripping. A local part outside 8-15 digits is rejected rather than
// let garbage pollute the customer table.
func StandardizePhoneNumber(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	// Numeric cell rendered as float: cut the fractional part.
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			raw = strconv.FormatFloat(f, 'f', 0, 64)
		}
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return "", false
	}

	if !strings.HasPrefix(number, countryPrefix) {
		if strings.HasPrefix(number, "0") {
			number = countryPrefix + number[1:]
		} else {
			number = countryPrefix + number
		}
	}

	local := number[len(countryPrefix):]
	if len(local) < 8 || len(local) > 15 {
		return "", false
	}

	return "+" + number, true
}
