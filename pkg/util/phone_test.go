package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizePhoneNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "Local number with leading zero",
			input:  "01711234567",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "Already carries country prefix",
			input:  "8801711234567",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "International form with plus",
			input:  "+8801711234567",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "Dashes and spaces stripped",
			input:  "017-1123 4567",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "Bare local number gets prefix",
			input:  "1711234567",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "Float artifact from numeric cell",
			input:  "1711234567.0",
			want:   "+8801711234567",
			wantOK: true,
		},
		{
			name:   "Too short after prefix",
			input:  "01234",
			wantOK: false,
		},
		{
			name:   "Too long after prefix",
			input:  "8801234567890123456",
			wantOK: false,
		},
		{
			name:   "Empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "No digits at all",
			input:  "n/a",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StandardizePhoneNumber(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestStandardizePhoneNumber_Idempotent(t *testing.T) {
	inputs := []string{
		"01711234567",
		"8801711234567",
		"017112345678901",
	}

	for _, input := range inputs {
		first, ok := StandardizePhoneNumber(input)
		if !ok {
			continue
		}
		second, ok := StandardizePhoneNumber(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)
	}
}
