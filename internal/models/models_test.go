package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSetDropsUnknownRoles(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"username":"a","roles":["ROLE_USER","ROLE_DONOR","role_admin","ROLE_DONOR"]}`), &u))
	assert.Equal(t, RoleSet{RoleDonor, RoleAdmin}, u.Roles)

	primary, ok := u.Roles.Primary()
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, primary)

	_, ok = RoleSet(nil).Primary()
	assert.False(t, ok)
}

func TestUserTypeRole(t *testing.T) {
	ut, ok := ParseUserType("donor")
	require.True(t, ok)
	assert.Equal(t, RoleDonor, ut.Role())

	_, ok = ParseUserType("ADMIN")
	assert.False(t, ok)
}

func TestNameParts(t *testing.T) {
	first, last := User{FullName: "  Ada  King Lovelace "}.NameParts()
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "King Lovelace", last)
}

func completeProfile() Profile {
	return Profile{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		ContactNumber: "555-0100", Address: "1 Analytical Way", DateOfBirth: "1990-12-10",
		BloodType: "O_NEGATIVE", EmergencyContactName: "Charles", EmergencyContactNumber: "555-0101",
		UrgencyLevel: "HIGH",
	}
}

func TestMissingEverySingleRequiredField(t *testing.T) {
	for _, roles := range []RoleSet{NewRoleSet(RoleDonor), NewRoleSet(RoleReceiver), nil} {
		p := completeProfile()
		assert.Empty(t, p.Missing(roles))

		for _, field := range RequiredProfileFields(roles) {
			blanked := blank(t, p, field)
			assert.Equal(t, []ProfileField{field}, blanked.Missing(roles), "roles=%v field=%s", roles, field)
		}
	}
}

func TestRoleSpecificFieldsOnlyRequiredForRole(t *testing.T) {
	p := completeProfile()
	p.UrgencyLevel = ""
	assert.Empty(t, p.Missing(NewRoleSet(RoleDonor)))
	assert.Equal(t, []ProfileField{"urgencyLevel"}, p.Missing(NewRoleSet(RoleReceiver)))
}

func TestCancelable(t *testing.T) {
	assert.True(t, Donation{Status: StatusPending}.Cancelable())
	assert.False(t, Donation{Status: StatusApproved}.Cancelable())
	assert.True(t, OrganRequest{LegacyStatus: StatusPending}.Cancelable())
	assert.False(t, OrganRequest{RequestStatus: StatusMatched, LegacyStatus: StatusPending}.Cancelable())
}

// blank returns p with field set to whitespace through its JSON form.
func blank(t *testing.T, p Profile, field ProfileField) Profile {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	m[string(field)] = "  "
	raw, err = json.Marshal(m)
	require.NoError(t, err)
	var out Profile
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
