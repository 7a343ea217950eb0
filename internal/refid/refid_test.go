package refid

import (
	"strings"
	"testing"
	"time"
)

var refNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestNewFormat(t *testing.T) {
	t.Parallel()

	id := New(QuotePrefix, refNow, 3)

	if !strings.HasPrefix(id, "COT-") {
		t.Fatalf("expected COT- prefix, got %q", id)
	}
	if !strings.HasSuffix(id, "-0003") {
		t.Fatalf("expected zero padded sequence suffix, got %q", id)
	}

	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected prefix-stamp-seq, got %q", id)
	}
	if parts[1] != strings.ToUpper(parts[1]) {
		t.Fatalf("expected uppercase stamp, got %q", parts[1])
	}
}

func TestNewBookingPrefix(t *testing.T) {
	t.Parallel()

	id := New(BookingPrefix, refNow, 1)
	if !strings.HasPrefix(id, "PED-") {
		t.Fatalf("expected PED- prefix, got %q", id)
	}
}

func TestNewSequencesDiffer(t *testing.T) {
	t.Parallel()

	first := New(QuotePrefix, refNow, 1)
	second := New(QuotePrefix, refNow, 2)
	if first == second {
		t.Fatalf("ids with different sequences must differ, both %q", first)
	}
}

func TestNewWideSequenceStillFormats(t *testing.T) {
	t.Parallel()

	id := New(BookingPrefix, refNow, 12345)
	if !strings.HasSuffix(id, "-12345") {
		t.Fatalf("sequences beyond the pad width keep their digits, got %q", id)
	}
}
