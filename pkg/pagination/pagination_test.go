package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	cursor := Cursor{
		CreatedAt: time.Date(2026, time.March, 10, 9, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(cursor))
	if err != nil {
		t.Fatal(err)
	}
	if parsed == nil {
		t.Fatal("expected parsed cursor")
	}
	if !parsed.CreatedAt.Equal(cursor.CreatedAt) {
		t.Fatalf("timestamp changed: %s != %s", parsed.CreatedAt, cursor.CreatedAt)
	}
	if parsed.ID != cursor.ID {
		t.Fatalf("id changed: %s != %s", parsed.ID, cursor.ID)
	}
}

func TestParseCursorEmptyIsNil(t *testing.T) {
	t.Parallel()

	parsed, err := ParseCursor("   ")
	if err != nil {
		t.Fatal(err)
	}
	if parsed != nil {
		t.Fatalf("blank cursor must parse to nil, got %+v", parsed)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
	}{
		{"not base64", "%%%"},
		{"no separator", "bm9zZXBhcmF0b3I"},
		{"bad timestamp", "bm90LWEtdGltZXwxMjM0"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseCursor(tc.value); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit = %d, want default %d", got, DefaultLimit)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("negative limit = %d, want default %d", got, DefaultLimit)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("oversized limit = %d, want cap %d", got, MaxLimit)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("in-range limit = %d, want 10", got)
	}
}

func TestLimitWithBuffer(t *testing.T) {
	t.Parallel()

	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("buffered limit = %d, want 11", got)
	}
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("buffered default = %d, want %d", got, DefaultLimit+1)
	}
}
