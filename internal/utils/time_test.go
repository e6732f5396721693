package utils

import "testing"

func TestValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2025-10-01", true},
		{" 2025-10-01 ", true},
		{"2025-13-01", false},
		{"01-10-2025", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidDate(tc.in); got != tc.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidClock(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"24:00", false},
		{"8am", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidClock(tc.in); got != tc.want {
			t.Errorf("ValidClock(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
