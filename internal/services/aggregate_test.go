package services

import (
	"testing"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.0 / 3.0, 3.3},
		{4.0, 4.0},
		{4.25, 4.3},
		{4.04, 4.0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := RoundRating(tt.in); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
