package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/lifelink/internal/models"
)

func TestAccountsAreUnique(t *testing.T) {
	r := New()
	_, err := r.CreateAccount(Account{User: models.User{Username: "ann", Email: "ann@example.com"}})
	require.NoError(t, err)

	_, err = r.CreateAccount(Account{User: models.User{Username: "ann", Email: "other@example.com"}})
	require.ErrorIs(t, err, ErrAlreadyExists)
	_, err = r.CreateAccount(Account{User: models.User{Username: "other", Email: "ANN@example.com"}})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDonationLifecycle(t *testing.T) {
	r := New()
	d := r.AddDonation("dora", "KIDNEY", "none")
	assert.Equal(t, models.StatusPending, d.Status)

	_, err := r.TransitionDonation(d.ID, "someone-else", models.StatusCancelled)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := r.TransitionDonation(d.ID, "dora", models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = r.TransitionDonation(d.ID, "", models.StatusApproved)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProfileCreateThenUpdate(t *testing.T) {
	r := New()
	require.ErrorIs(t, r.UpdateProfile("x", models.Profile{}), ErrNotFound)
	require.NoError(t, r.CreateProfile("x", models.Profile{FirstName: "X"}))
	require.ErrorIs(t, r.CreateProfile("x", models.Profile{}), ErrAlreadyExists)
	require.NoError(t, r.UpdateProfile("x", models.Profile{FirstName: "Y"}))

	p, err := r.Profile("x")
	require.NoError(t, err)
	assert.Equal(t, "Y", p.FirstName)
}

func TestMatchesRespectBloodCompatibility(t *testing.T) {
	r := New()
	require.NoError(t, r.CreateProfile("donor", models.Profile{BloodType: "O_NEGATIVE"}))
	require.NoError(t, r.CreateProfile("recv", models.Profile{BloodType: "AB_POSITIVE"}))
	require.NoError(t, r.CreateProfile("recv2", models.Profile{BloodType: "O_NEGATIVE"}))
	require.NoError(t, r.CreateProfile("donor2", models.Profile{BloodType: "AB_POSITIVE"}))

	d := r.AddDonation("donor", "LIVER", "")
	d2 := r.AddDonation("donor2", "LIVER", "")
	q := r.AddRequest("recv", "LIVER", models.UrgencyHigh, "", true)
	q2 := r.AddRequest("recv2", "LIVER", models.UrgencyLow, "", true)
	for _, id := range []int64{d.ID, d2.ID} {
		_, err := r.TransitionDonation(id, "", models.StatusApproved)
		require.NoError(t, err)
	}
	for _, id := range []int64{q.ID, q2.ID} {
		_, err := r.TransitionRequest(id, "", models.StatusApproved)
		require.NoError(t, err)
	}

	matches := r.Matches()
	// O- gives to both; AB+ only to AB+.
	require.Len(t, matches, 3)
	assert.Equal(t, float64(100), matches[0].CompatibilityScore)
	for _, m := range matches {
		assert.False(t, m.Donation.ID == d2.ID && m.Request.ID == q2.ID)
	}
}

func TestCompatibility(t *testing.T) {
	score, ok := compatibility("A_POSITIVE", "A_NEGATIVE")
	assert.False(t, ok)
	assert.Zero(t, score)

	score, ok = compatibility("B_NEGATIVE", "AB_POSITIVE")
	assert.True(t, ok)
	assert.Equal(t, float64(80), score)

	score, ok = compatibility("", "AB_POSITIVE")
	assert.True(t, ok)
	assert.Equal(t, float64(50), score)
}
