package sysinfo

import "testing"

func TestParseTemp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"millidegrees", "48666\n", "49C"},
		{"plain degrees", "52.3", "52C"},
		{"garbage", "not-a-number", "-"},
		{"empty", "", "-"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseTemp(tc.raw); got != tc.want {
				t.Errorf("parseTemp(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseLoad(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"normal", "0.42 0.35 0.28 1/123 4567\n", "0.42"},
		{"garbage", "zero point one", "-"},
		{"empty", "", "-"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseLoad(tc.raw); got != tc.want {
				t.Errorf("parseLoad(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
