package models

import (
	"encoding/json"
	"strings"
)

// Role is a coarse permission category issued by the backend.
type Role string

const (
	RoleAdmin    Role = "ROLE_ADMIN"
	RoleDonor    Role = "ROLE_DONOR"
	RoleReceiver Role = "ROLE_RECEIVER"
)

// rolePrecedence orders roles for routing; the first role a user holds wins.
var rolePrecedence = [...]Role{RoleAdmin, RoleDonor, RoleReceiver}

// ParseRole maps a wire role string onto the closed set of known roles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleDonor, RoleReceiver:
		return r, true
	default:
		return "", false
	}
}

// RoleSet holds the recognised roles of a user. Unknown role strings are
// dropped when decoding.
type RoleSet []Role

// NewRoleSet builds a de-duplicated set from known roles.
func NewRoleSet(roles ...Role) RoleSet {
	out := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if parsed, ok := ParseRole(string(r)); ok && !out.Has(parsed) {
			out = append(out, parsed)
		}
	}
	return out
}

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	for _, held := range s {
		if held == r {
			return true
		}
	}
	return false
}

// Primary returns the highest-precedence role in the set.
func (s RoleSet) Primary() (Role, bool) {
	for _, r := range rolePrecedence {
		if s.Has(r) {
			return r, true
		}
	}
	return "", false
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, Role(r))
	}
	*s = NewRoleSet(roles...)
	return nil
}

// UserType is the account category chosen at sign-up.
type UserType string

const (
	UserTypeDonor    UserType = "DONOR"
	UserTypeReceiver UserType = "RECEIVER"
)

// ParseUserType accepts DONOR or RECEIVER in any case.
func ParseUserType(s string) (UserType, bool) {
	switch t := UserType(strings.ToUpper(strings.TrimSpace(s))); t {
	case UserTypeDonor, UserTypeReceiver:
		return t, true
	default:
		return "", false
	}
}

// Role returns the role granted to accounts of this type.
func (t UserType) Role() Role {
	switch t {
	case UserTypeDonor:
		return RoleDonor
	case UserTypeReceiver:
		return RoleReceiver
	default:
		return ""
	}
}
