// Package noise hides backend error texts that mean nothing to a user, such
// as serializer internals leaking through an error body.
package noise

import (
	"errors"
	"strings"

	"github.com/hongminglow/lifelink/internal/api"
)

// Filter matches messages against a denylist of substrings.
type Filter struct {
	deny []string
}

// NewFilter builds a filter; blank entries are ignored.
func NewFilter(deny []string) *Filter {
	f := &Filter{}
	for _, d := range deny {
		if d = strings.TrimSpace(d); d != "" {
			f.deny = append(f.deny, d)
		}
	}
	return f
}

// Show reports whether msg is non-empty and free of denylisted fragments.
func (f *Filter) Show(msg string) bool {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return false
	}
	for _, d := range f.deny {
		if strings.Contains(msg, d) {
			return false
		}
	}
	return true
}

// Message picks the text to show for err: the backend's own message when it
// passes the filter, then the client's message for the failure, then fallback.
func (f *Filter) Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := api.ServerMessageOf(err); f.Show(msg) {
		return msg
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && f.Show(apiErr.Message) {
		return apiErr.Message
	}
	return fallback
}
