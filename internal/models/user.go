package models

import "strings"

// User captures the identity returned by sign-in and persisted under the
// "user" key.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Roles    RoleSet `json:"roles"`
}

// NameParts splits FullName into a first name and the remainder.
func (u User) NameParts() (first, last string) {
	fields := strings.Fields(u.FullName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// Session pairs a bearer token with the identity it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
