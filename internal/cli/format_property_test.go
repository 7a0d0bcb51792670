package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: volume formatting picks the unit by magnitude.
func TestProperty_VolumeFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatVolume uses correct units", prop.ForAll(
		func(volume int64) bool {
			formatted := FormatVolume(volume)
			switch {
			case volume >= 1_000_000_000:
				return strings.HasSuffix(formatted, " B")
			case volume >= 1_000_000:
				return strings.HasSuffix(formatted, " M")
			case volume >= 1000:
				return strings.HasSuffix(formatted, " K")
			}
			return !strings.ContainsAny(formatted, "KMB")
		},
		gen.Int64Range(0, 1e12),
	))

	properties.Property("PadRight never shortens", prop.ForAll(
		func(s string, n int) bool {
			padded := PadRight(s, n)
			return strings.HasPrefix(padded, s) && len(padded) >= n && len(padded) >= len(s)
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestFormatVolumeExamples(t *testing.T) {
	testCases := []struct {
		volume   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.50 K"},
		{2_500_000, "2.50 M"},
		{3_000_000_000, "3.00 B"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if result := FormatVolume(tc.volume); result != tc.expected {
				t.Errorf("FormatVolume(%d) = %s, want %s", tc.volume, result, tc.expected)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("zero time = %q, want -", got)
	}
	d := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	if got := FormatDate(d); got != "20-Jun-2025" {
		t.Errorf("FormatDate = %q", got)
	}
}
