package models

import "strings"

// Profile is the medical and contact record of a donor or receiver.
// DateOfBirth uses the YYYY-MM-DD layout.
type Profile struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ContactNumber  string `json:"contactNumber"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	BloodType      string `json:"bloodType"`
	MedicalHistory string `json:"medicalHistory"`

	// Donor only.
	EmergencyContactName   string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string `json:"emergencyContactNumber,omitempty"`
	PreferredHospital      string `json:"preferredHospital,omitempty"`

	// Receiver only.
	UrgencyLevel string `json:"urgencyLevel,omitempty"`
}

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

var BloodTypes = []string{
	"A_POSITIVE", "A_NEGATIVE", "B_POSITIVE", "B_NEGATIVE",
	"AB_POSITIVE", "AB_NEGATIVE", "O_POSITIVE", "O_NEGATIVE",
}

// ProfileField names a profile attribute by its wire name.
type ProfileField string

var commonRequired = []ProfileField{
	"firstName", "lastName", "email", "contactNumber", "address", "dateOfBirth", "bloodType",
}

var donorRequired = []ProfileField{"emergencyContactName", "emergencyContactNumber"}

var receiverRequired = []ProfileField{"urgencyLevel"}

// RequiredProfileFields returns the fields a profile must fill for roles.
func RequiredProfileFields(roles RoleSet) []ProfileField {
	out := append([]ProfileField(nil), commonRequired...)
	if roles.Has(RoleDonor) {
		out = append(out, donorRequired...)
	}
	if roles.Has(RoleReceiver) {
		out = append(out, receiverRequired...)
	}
	return out
}

// Value returns the value of field, or false for unknown fields.
func (p Profile) Value(field ProfileField) (string, bool) {
	switch field {
	case "firstName":
		return p.FirstName, true
	case "lastName":
		return p.LastName, true
	case "email":
		return p.Email, true
	case "contactNumber":
		return p.ContactNumber, true
	case "address":
		return p.Address, true
	case "dateOfBirth":
		return p.DateOfBirth, true
	case "bloodType":
		return p.BloodType, true
	case "medicalHistory":
		return p.MedicalHistory, true
	case "emergencyContactName":
		return p.EmergencyContactName, true
	case "emergencyContactNumber":
		return p.EmergencyContactNumber, true
	case "preferredHospital":
		return p.PreferredHospital, true
	case "urgencyLevel":
		return p.UrgencyLevel, true
	default:
		return "", false
	}
}

// Missing lists the required fields for roles that are empty or blank.
func (p Profile) Missing(roles RoleSet) []ProfileField {
	var out []ProfileField
	for _, f := range RequiredProfileFields(roles) {
		if v, _ := p.Value(f); strings.TrimSpace(v) == "" {
			out = append(out, f)
		}
	}
	return out
}
