package dashboard

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hongminglow/lifelink/internal/models"
)

// Tone classifies a badge or alert for rendering.
type Tone string

const (
	ToneSuccess   Tone = "success"
	ToneDanger    Tone = "danger"
	ToneWarning   Tone = "warning"
	ToneInfo      Tone = "info"
	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
)

// FormatStatus turns an enum such as BONE_MARROW into "Bone Marrow".
func FormatStatus(s string) string {
	if s == "" {
		return ""
	}
	words := strings.ReplaceAll(strings.ToLower(s), "_", " ")
	return cases.Title(language.English).String(words)
}

// FormatDate renders a timestamp as a long date, or N/A when missing.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006")
}

// StatusTone maps a lifecycle state onto a tone.
func StatusTone(s models.Status) Tone {
	lower := strings.ToLower(string(s))
	switch {
	case lower == "":
		return ToneSecondary
	case strings.Contains(lower, "pending"):
		return ToneWarning
	case strings.Contains(lower, "approved"):
		return ToneSuccess
	case strings.Contains(lower, "rejected"):
		return ToneDanger
	case strings.Contains(lower, "matched"):
		return ToneInfo
	case strings.Contains(lower, "transplanted"), strings.Contains(lower, "completed"):
		return TonePrimary
	default:
		return ToneSecondary
	}
}

// UrgencyTone maps an urgency level onto a tone.
func UrgencyTone(u models.Urgency) Tone {
	lower := strings.ToLower(string(u))
	switch {
	case strings.Contains(lower, "critical"):
		return ToneDanger
	case strings.Contains(lower, "high"):
		return ToneWarning
	case strings.Contains(lower, "medium"):
		return ToneInfo
	case strings.Contains(lower, "low"):
		return ToneSuccess
	default:
		return ToneSecondary
	}
}

// Option is one entry of a selection list.
type Option struct {
	Value string
	Label string
}

// Choices joins the option values for help text: "A, B or C".
func Choices(opts []Option) string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	if len(values) < 2 {
		return strings.Join(values, "")
	}
	return strings.Join(values[:len(values)-1], ", ") + " or " + values[len(values)-1]
}

func OrganOptions() []Option {
	out := make([]Option, 0, len(models.OrganTypes))
	for _, o := range models.OrganTypes {
		out = append(out, Option{Value: string(o), Label: FormatStatus(string(o))})
	}
	return out
}

func UrgencyOptions() []Option {
	out := make([]Option, 0, len(models.Urgencies))
	for _, u := range models.Urgencies {
		out = append(out, Option{Value: string(u), Label: FormatStatus(string(u))})
	}
	return out
}
