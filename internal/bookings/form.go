package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
	"go.uber.org/multierr"
)

const dateLayout = "2006-01-02"

// Form carries the scheduling details submitted by the customer.
type Form struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	QuotationID string `json:"quotation_id,omitempty"`
}

// ValidatedForm is the form after normalization and checks.
type ValidatedForm struct {
	Address string
	City    string
	Phone   string
	Notes   string
	Date    time.Time
	Slot    enums.TimeSlot
}

// Validate normalizes the form and aggregates every field problem. The
// scheduled date must be strictly after today in the server's timezone, with
// the configured lead time on top.
func (f Form) Validate(now time.Time, minLeadDays int) (*ValidatedForm, map[string]string, error) {
	out := &ValidatedForm{
		Address: strings.TrimSpace(f.Address),
		City:    strings.TrimSpace(f.City),
		Phone:   strings.TrimSpace(f.Phone),
		Notes:   strings.TrimSpace(f.Notes),
	}

	var errs error
	fields := map[string]string{}

	if out.Address == "" {
		fields["address"] = "address is required"
		errs = multierr.Append(errs, fmt.Errorf("address is required"))
	}
	if out.City == "" {
		fields["city"] = "city is required"
		errs = multierr.Append(errs, fmt.Errorf("city is required"))
	}
	if out.Phone == "" {
		fields["phone"] = "phone is required"
		errs = multierr.Append(errs, fmt.Errorf("phone is required"))
	} else if !looksLikePhone(out.Phone) {
		fields["phone"] = "phone must contain at least 7 digits"
		errs = multierr.Append(errs, fmt.Errorf("phone %q is not valid", out.Phone))
	}

	if strings.TrimSpace(f.Date) == "" {
		fields["date"] = "date is required"
		errs = multierr.Append(errs, fmt.Errorf("date is required"))
	} else if parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.Date), now.Location()); err != nil {
		fields["date"] = "date must use the YYYY-MM-DD format"
		errs = multierr.Append(errs, fmt.Errorf("parse date: %w", err))
	} else {
		out.Date = parsed
		earliest := startOfDay(now).AddDate(0, 0, maxInt(minLeadDays, 1))
		if parsed.Before(earliest) {
			fields["date"] = fmt.Sprintf("date must be on or after %s", earliest.Format(dateLayout))
			errs = multierr.Append(errs, fmt.Errorf("date %s is too early", f.Date))
		}
	}

	if strings.TrimSpace(f.Slot) == "" {
		fields["slot"] = "slot is required"
		errs = multierr.Append(errs, fmt.Errorf("slot is required"))
	} else if slot, err := enums.ParseTimeSlot(strings.TrimSpace(f.Slot)); err != nil {
		fields["slot"] = "slot is not one of the offered time windows"
		errs = multierr.Append(errs, err)
	} else {
		out.Slot = slot
	}

	if errs != nil {
		return nil, fields, errs
	}
	return out, nil, nil
}

func looksLikePhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
