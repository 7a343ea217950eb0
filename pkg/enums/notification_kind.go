package enums

import "fmt"

// NotificationKind classifies a user-facing notice.
type NotificationKind string

const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindInfo    NotificationKind = "info"
	NotificationKindWarning NotificationKind = "warning"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationKindSuccess, NotificationKindError, NotificationKindInfo, NotificationKindWarning:
		return true
	default:
		return false
	}
}

func ParseNotificationKind(s string) (NotificationKind, error) {
	kind := NotificationKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid notification kind: %q", s)
	}
	return kind, nil
}
