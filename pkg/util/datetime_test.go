package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "ISO datetime",
			input:  "2024-03-05 18:45:00",
			want:   time.Date(2024, 3, 5, 18, 45, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "ISO date only",
			input:  "2024-03-05",
			want:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "Day-first with slashes",
			input:  "05/03/2024 09:15:00",
			want:   time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC),
			wantOK: true,
		},
		{name: "Empty", input: "", wantOK: false},
		{name: "nan cell", input: "nan", wantOK: false},
		{name: "Garbage", input: "not a date", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateTime(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(tt.want))
			}
		})
	}
}

func TestCategorizeMealPeriod_Boundaries(t *testing.T) {
	tests := []struct {
		clock string
		want  string
	}{
		{clock: "05:59:59", want: MealDinner},
		{clock: "06:00:00", want: MealBreakfast},
		{clock: "12:29:59", want: MealBreakfast},
		{clock: "12:30:00", want: MealLunch},
		{clock: "17:00:00", want: MealLunch},
		{clock: "17:00:01", want: MealDinner},
		{clock: "00:00:00", want: MealDinner},
		{clock: "23:59:59", want: MealDinner},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			parsed, err := time.Parse("2006-01-02 15:04:05", "2024-03-05 "+tt.clock)
			require.NoError(t, err)

			assert.Equal(t, tt.want, CategorizeMealPeriod(&parsed))
		})
	}
}

func TestCategorizeMealPeriod_MissingTime(t *testing.T) {
	assert.Equal(t, MealUnknown, CategorizeMealPeriod(nil))
}
