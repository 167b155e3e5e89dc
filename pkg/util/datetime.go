package util

import (
	"strings"
	"time"
)

// Meal period labels used by the daily report.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealUnknown   = "Unknown"
)

// Layouts observed across ServQuick and iKitchen exports. Order matters:
// unambiguous ISO forms first, then day-first forms.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	"02-01-2006",
	"02/01/2006",
}

// ParseDateTime parses a spreadsheet date/time cell, trying each known
// export layout in turn.
func ParseDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CategorizeMealPeriod buckets a sale time into a meal period:
// before 06:00 -> Dinner, [06:00, 12:30) -> Breakfast, [12:30, 17:00] ->
// Lunch, after 17:00 -> Dinner. A missing time is Unknown.
func CategorizeMealPeriod(saleTime *time.Time) string {
	if saleTime == nil {
		return MealUnknown
	}

	secs := saleTime.Hour()*3600 + saleTime.Minute()*60 + saleTime.Second()
	const (
		breakfastStart = 6 * 3600
		breakfastEnd   = 12*3600 + 30*60
		lunchEnd       = 17 * 3600
	)

	switch {
	case secs < breakfastStart:
		return MealDinner
	case secs < breakfastEnd:
		return MealBreakfast
	case secs <= lunchEnd:
		return MealLunch
	default:
		return MealDinner
	}
}
