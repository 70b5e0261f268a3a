package extractor

import (
	"strings"
	"testing"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{
			name: "typical statement page",
			pages: []string{
				"UPI Statement for July 2025\nJul 20, 2025\n08:05 pm\nDEBIT ₹30 Paid to JOGI SUPER STORE\nTransaction ID T2507201234567890",
			},
			want: true,
		},
		{
			name:  "too short",
			pages: []string{"Paid ₹30"},
			want:  false,
		},
		{
			name: "identity-encoded font garbage",
			pages: []string{
				strings.Repeat("Ã©Â½Ã¸Â¡", 40),
			},
			want: false,
		},
		{
			name: "readable but not a statement",
			pages: []string{
				"the quick brown fox jumps over the lazy dog again and again and again and again",
			},
			want: false,
		},
		{
			name:  "empty",
			pages: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadableText(tt.pages); got != tt.want {
				t.Errorf("IsReadableText = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextQualityCountsCurrencyAsReadable(t *testing.T) {
	q := textQuality([]string{"Paid ₹1,250.50 to vendor"})
	if q < 0.99 {
		t.Errorf("quality = %f, want ~1.0 for clean statement text", q)
	}
}
