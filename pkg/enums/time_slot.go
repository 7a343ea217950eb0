package enums

import "fmt"

// TimeSlot is one of the half-hour service windows offered for visits.
type TimeSlot string

const (
	TimeSlot0800 TimeSlot = "08:00"
	TimeSlot0830 TimeSlot = "08:30"
	TimeSlot0900 TimeSlot = "09:00"
	TimeSlot0930 TimeSlot = "09:30"
	TimeSlot1000 TimeSlot = "10:00"
	TimeSlot1030 TimeSlot = "10:30"
	TimeSlot1100 TimeSlot = "11:00"
	TimeSlot1130 TimeSlot = "11:30"
	TimeSlot1200 TimeSlot = "12:00"
	TimeSlot1230 TimeSlot = "12:30"
	TimeSlot1300 TimeSlot = "13:00"
	TimeSlot1330 TimeSlot = "13:30"
	TimeSlot1400 TimeSlot = "14:00"
	TimeSlot1430 TimeSlot = "14:30"
	TimeSlot1500 TimeSlot = "15:00"
	TimeSlot1530 TimeSlot = "15:30"
	TimeSlot1600 TimeSlot = "16:00"
	TimeSlot1630 TimeSlot = "16:30"
)

var allTimeSlots = []TimeSlot{
	TimeSlot0800, TimeSlot0830, TimeSlot0900, TimeSlot0930,
	TimeSlot1000, TimeSlot1030, TimeSlot1100, TimeSlot1130,
	TimeSlot1200, TimeSlot1230, TimeSlot1300, TimeSlot1330,
	TimeSlot1400, TimeSlot1430, TimeSlot1500, TimeSlot1530,
	TimeSlot1600, TimeSlot1630,
}

func (t TimeSlot) String() string {
	return string(t)
}

func (t TimeSlot) IsValid() bool {
	for _, slot := range allTimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// AllTimeSlots returns the bookable windows in schedule order.
func AllTimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(allTimeSlots))
	copy(out, allTimeSlots)
	return out
}

func ParseTimeSlot(s string) (TimeSlot, error) {
	slot := TimeSlot(s)
	if !slot.IsValid() {
		return "", fmt.Errorf("invalid time slot: %q", s)
	}
	return slot, nil
}
