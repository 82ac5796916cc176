package util

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2024-10-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRFC3339(t *testing.T) {
	got, ok := ParseDate("2024-10-10T10:10:10Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(ISODate) != "2024-10-10" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "yesterday", "2024/10/01"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	if got := FormatDisplayDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)); got != "Mar 1, 2025" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := FormatDisplayDate(time.Time{}); got != "" {
		t.Fatalf("zero time should render empty, got %q", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if ParseIntDefault("", 7) != 7 || ParseIntDefault("x", 7) != 7 || ParseIntDefault("12", 7) != 12 {
		t.Fatalf("ParseIntDefault mismatch")
	}
}

func TestClampInt(t *testing.T) {
	if ClampInt(0, 1, 10) != 1 || ClampInt(11, 1, 10) != 10 || ClampInt(5, 1, 10) != 5 {
		t.Fatalf("ClampInt mismatch")
	}
}
