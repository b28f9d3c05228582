package units

import (
	"math/big"
	"testing"
)

func TestToDecimal(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	got := ToDecimal(raw, 18)
	if got.String() != "1.5" {
		t.Fatalf("scaled amount mismatch: %s", got)
	}

	if !ToDecimal(nil, 18).IsZero() {
		t.Fatalf("nil raw amount should scale to zero")
	}
}

func TestParseRawAmount(t *testing.T) {
	got, err := ParseRawAmount("250000000", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2.5" {
		t.Fatalf("scaled amount mismatch: %s", got)
	}

	got, err = ParseRawAmount("", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("empty amount should parse to zero, got %s", got)
	}

	if _, err := ParseRawAmount("0x12", 6); err == nil {
		t.Fatalf("expected error for non-decimal input")
	}
}

func TestHourBoundaries(t *testing.T) {
	if got := HourStart(7250); got != 7200 {
		t.Fatalf("hour start mismatch: %d", got)
	}

	// The next boundary is always strictly ahead, even on an exact hour.
	if got := NextHourStart(7200); got != 10800 {
		t.Fatalf("next hour start mismatch: %d", got)
	}
	if got := NextHourStart(7199); got != 7200 {
		t.Fatalf("next hour start mismatch: %d", got)
	}
}
