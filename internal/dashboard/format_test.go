package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/lifelink/internal/models"
)

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Bone Marrow", FormatStatus("BONE_MARROW"))
	assert.Equal(t, "Pending", FormatStatus("PENDING"))
	assert.Equal(t, "Small Intestine", FormatStatus("small_intestine"))
	assert.Empty(t, FormatStatus(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "N/A", FormatDate(nil))
	assert.Equal(t, "N/A", FormatDate(&time.Time{}))
	d := time.Date(2025, time.November, 3, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "November 3, 2025", FormatDate(&d))
}

func TestTones(t *testing.T) {
	cases := map[models.Status]Tone{
		models.StatusPending:      ToneWarning,
		models.StatusApproved:     ToneSuccess,
		models.StatusRejected:     ToneDanger,
		models.StatusMatched:      ToneInfo,
		models.StatusTransplanted: TonePrimary,
		models.StatusCompleted:    TonePrimary,
		models.StatusCancelled:    ToneSecondary,
		"":                        ToneSecondary,
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusTone(status), status)
	}

	assert.Equal(t, ToneDanger, UrgencyTone(models.UrgencyCritical))
	assert.Equal(t, ToneWarning, UrgencyTone(models.UrgencyHigh))
	assert.Equal(t, ToneInfo, UrgencyTone(models.UrgencyMedium))
	assert.Equal(t, ToneSuccess, UrgencyTone(models.UrgencyLow))
	assert.Equal(t, ToneSecondary, UrgencyTone(""))
}

func TestOptions(t *testing.T) {
	organs := OrganOptions()
	assert.Len(t, organs, len(models.OrganTypes))
	assert.Contains(t, organs, Option{Value: "BONE_MARROW", Label: "Bone Marrow"})

	assert.Equal(t, []Option{
		{Value: "LOW", Label: "Low"},
		{Value: "MEDIUM", Label: "Medium"},
		{Value: "HIGH", Label: "High"},
		{Value: "CRITICAL", Label: "Critical"},
	}, UrgencyOptions())
	assert.Equal(t, "LOW, MEDIUM, HIGH or CRITICAL", Choices(UrgencyOptions()))
	assert.Equal(t, "KIDNEY", Choices(OrganOptions()[:1]))
	assert.Empty(t, Choices(nil))
}
