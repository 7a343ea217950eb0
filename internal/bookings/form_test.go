package bookings

import (
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
)

var formNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func validForm() Form {
	return Form{
		Address: "Calle 45 # 12-34",
		City:    "Bogotá",
		Phone:   "+57 300 123 4567",
		Notes:   "Portería, anunciar llegada",
		Date:    "2026-03-12",
		Slot:    "09:30",
	}
}

func TestFormValidateAccepts(t *testing.T) {
	t.Parallel()

	out, fields, err := validForm().Validate(formNow, 1)
	if err != nil {
		t.Fatalf("expected valid form, got %v (fields %v)", err, fields)
	}
	if out.Address != "Calle 45 # 12-34" || out.City != "Bogotá" {
		t.Fatalf("unexpected normalization: %+v", out)
	}
	if out.Slot != enums.TimeSlot0930 {
		t.Fatalf("expected 09:30 slot, got %s", out.Slot)
	}
	if got := out.Date.Format("2006-01-02"); got != "2026-03-12" {
		t.Fatalf("expected parsed date 2026-03-12, got %s", got)
	}
}

func TestFormValidateFieldErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{"missing address", func(f *Form) { f.Address = "   " }, "address"},
		{"missing city", func(f *Form) { f.City = "" }, "city"},
		{"missing phone", func(f *Form) { f.Phone = "" }, "phone"},
		{"short phone", func(f *Form) { f.Phone = "12345" }, "phone"},
		{"lettered phone", func(f *Form) { f.Phone = "call-me-maybe" }, "phone"},
		{"missing date", func(f *Form) { f.Date = "" }, "date"},
		{"malformed date", func(f *Form) { f.Date = "12/03/2026" }, "date"},
		{"date today", func(f *Form) { f.Date = "2026-03-10" }, "date"},
		{"date in the past", func(f *Form) { f.Date = "2026-03-01" }, "date"},
		{"missing slot", func(f *Form) { f.Slot = "" }, "slot"},
		{"slot off the grid", func(f *Form) { f.Slot = "09:15" }, "slot"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			form := validForm()
			tc.mutate(&form)

			out, fields, err := form.Validate(formNow, 1)
			if err == nil {
				t.Fatalf("expected rejection, got %+v", out)
			}
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected %q in field map, got %v", tc.field, fields)
			}
		})
	}
}

func TestFormValidateAggregatesAllProblems(t *testing.T) {
	t.Parallel()

	_, fields, err := Form{}.Validate(formNow, 1)
	if err == nil {
		t.Fatal("empty form must be rejected")
	}
	for _, field := range []string{"address", "city", "phone", "date", "slot"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected %q flagged, got %v", field, fields)
		}
	}
}

func TestFormValidateHonorsLeadDays(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.Date = "2026-03-12"

	if _, _, err := form.Validate(formNow, 3); err == nil {
		t.Fatal("expected date inside the lead window to be rejected")
	}

	form.Date = "2026-03-13"
	if _, _, err := form.Validate(formNow, 3); err != nil {
		t.Fatalf("expected first bookable day to pass, got %v", err)
	}
}

func TestFormValidateTomorrowIsEarliest(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.Date = "2026-03-11"

	if _, _, err := form.Validate(formNow, 0); err != nil {
		t.Fatalf("tomorrow must be bookable even with zero lead config, got %v", err)
	}

	form.Date = "2026-03-10"
	if _, _, err := form.Validate(formNow, 0); err == nil {
		t.Fatal("same-day booking must be rejected")
	}
}
