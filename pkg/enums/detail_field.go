package enums

import "fmt"

// DetailField names a configurable attribute of a cart item.
type DetailField string

const (
	DetailFieldSize     DetailField = "size"
	DetailFieldWashType DetailField = "wash_type"
)

func (f DetailField) String() string {
	return string(f)
}

func (f DetailField) IsValid() bool {
	switch f {
	case DetailFieldSize, DetailFieldWashType:
		return true
	default:
		return false
	}
}

func ParseDetailField(s string) (DetailField, error) {
	field := DetailField(s)
	if !field.IsValid() {
		return "", fmt.Errorf("invalid detail field: %q", s)
	}
	return field, nil
}
