package utils

import "testing"

func TestIsHex(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want bool
	}{
		{"deadbeef", 8, true},
		{"deadbeef", 7, false},
		{"DEADBEEF", 8, false},
		{"deadbeeg", 8, false},
		{"", 0, true},
		{"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", 64, true},
	}
	for _, tt := range tests {
		if got := IsHex(tt.s, tt.n); got != tt.want {
			t.Errorf("IsHex(%q, %d) = %v, want %v", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestIsHexRange(t *testing.T) {
	tests := []struct {
		s        string
		min, max int
		want     bool
	}{
		{"abc1234", 7, 40, true},
		{"abc123", 7, 40, false},
		{"0123456789012345678901234567890123456789", 7, 40, true},
		{"01234567890123456789012345678901234567890", 7, 40, false},
		{"abc123X", 7, 40, false},
	}
	for _, tt := range tests {
		if got := IsHexRange(tt.s, tt.min, tt.max); got != tt.want {
			t.Errorf("IsHexRange(%q, %d, %d) = %v, want %v", tt.s, tt.min, tt.max, got, tt.want)
		}
	}
}
