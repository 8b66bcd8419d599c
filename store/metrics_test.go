package store

import "testing"

func TestAffinity(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{0, 0},
		{52.5, 0},
		{1_000_000, 2},
		{123_456_789, 246.91},
		{5e9, 10000},
		{6e9, 10000}, // capped
	}

	for _, tt := range tests {
		if got := Affinity(tt.vol); got != tt.want {
			t.Errorf("Affinity(%v) = %v, want %v", tt.vol, got, tt.want)
		}
	}
}

func TestSteep(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{0, 0},
		{52.5, 0.26},
		{100, 0.5},
		{12345.6, 61.73},
	}

	for _, tt := range tests {
		if got := Steep(tt.vol); got != tt.want {
			t.Errorf("Steep(%v) = %v, want %v", tt.vol, got, tt.want)
		}
	}
}
