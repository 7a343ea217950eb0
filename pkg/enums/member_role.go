package enums

import "fmt"

// MemberRole captures the access tier of an account.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleEmployee MemberRole = "employee"
	MemberRoleClient   MemberRole = "client"
)

func (r MemberRole) String() string {
	return string(r)
}

func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleAdmin, MemberRoleEmployee, MemberRoleClient:
		return true
	default:
		return false
	}
}

func ParseMemberRole(s string) (MemberRole, error) {
	role := MemberRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid member role: %q", s)
	}
	return role, nil
}
