package utils

import "testing"

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "NGN 0.00"},
		{12.5, "NGN 12.50"},
		{1234567.891, "NGN 1,234,567.89"},
		{-950.4, "-NGN 950.40"},
		{999.999, "NGN 1,000.00"},
	}

	for _, tc := range cases {
		if got := FormatNaira(tc.in); got != tc.want {
			t.Fatalf("FormatNaira(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseNaira(t *testing.T) {
	got, err := ParseNaira("NGN 1,000.50")
	if err != nil || got != 1000.50 {
		t.Fatalf("ParseNaira = %v, %v", got, err)
	}
	got, err = ParseNaira("250")
	if err != nil || got != 250 {
		t.Fatalf("ParseNaira = %v, %v", got, err)
	}
	if _, err := ParseNaira("NGN"); err == nil {
		t.Fatal("expected error on empty amount")
	}
}
