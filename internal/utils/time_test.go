package utils

import (
	"testing"
	"time"
)

func TestParseDatePlain(t *testing.T) {
	got, err := ParseDate(" 2025-04-01 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseDateRFC3339IsNormalizedToUTC(t *testing.T) {
	got, err := ParseDate("2025-04-01T09:00:00+09:00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Location() != time.UTC || got.Hour() != 0 || got.Day() != 1 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("April 1st"); err == nil {
		t.Fatalf("expected error for unparsable date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2025, 4, 10, 23, 0, 0, 0, time.UTC)); got != "2025-04-10" {
		t.Fatalf("got %s", got)
	}
}
