// Package forms validates user input before it is sent to the backend.
package forms

import (
	"regexp"
	"strings"
	"time"

	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
)

// MinPasswordLength applies to password resets and changes.
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Error is a validation failure. Message is shown to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalid(field, msg string) *Error {
	return &Error{Field: field, Message: msg}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ValidEmail checks the address shape only.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email)
}

// Login requires both credentials.
func Login(username, password string) error {
	if blank(username) || password == "" {
		return invalid("username", "Please enter both username and password")
	}
	return nil
}

// Registration is the sign-up form.
type Registration struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        string
	TermsAccepted   bool
}

// Validate checks the form and builds the sign-up payload.
func (r Registration) Validate() (dto.SignupRequest, error) {
	if !r.TermsAccepted {
		return dto.SignupRequest{}, invalid("termsAccepted", "You must accept the terms and conditions to register")
	}
	if r.Password != r.ConfirmPassword {
		return dto.SignupRequest{}, invalid("confirmPassword", "Passwords do not match")
	}
	switch {
	case blank(r.FirstName), blank(r.LastName):
		return dto.SignupRequest{}, invalid("firstName", "Please enter your first and last name")
	case blank(r.Username):
		return dto.SignupRequest{}, invalid("username", "Please choose a username")
	case r.Password == "":
		return dto.SignupRequest{}, invalid("password", "Please choose a password")
	case !ValidEmail(r.Email):
		return dto.SignupRequest{}, invalid("email", "Please enter a valid email address")
	}
	userType, ok := models.ParseUserType(r.UserType)
	if !ok {
		return dto.SignupRequest{}, invalid("userType", "Please choose whether you are a donor or a receiver")
	}
	return dto.SignupRequest{
		FullName: strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName),
		Username: strings.TrimSpace(r.Username),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		UserType: userType,
	}, nil
}

// ForgotPassword checks the address a reset link is sent to.
func ForgotPassword(email string) error {
	if !ValidEmail(email) {
		return invalid("email", "Please enter a valid email address")
	}
	return nil
}

// ResetToken rejects a missing reset token.
func ResetToken(token string) error {
	if blank(token) {
		return invalid("token", "Token is missing. Please use the link from your email.")
	}
	return nil
}

// NewPassword checks a password reset.
func NewPassword(password, confirm string) error {
	if password != confirm {
		return invalid("confirmPassword", "Passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return invalid("password", "Password must be at least 8 characters long")
	}
	return nil
}

// ChangePassword checks a password change of a logged-in user.
func ChangePassword(current, password, confirm string) error {
	if current == "" {
		return invalid("currentPassword", "Please enter your current password")
	}
	if password != confirm {
		return invalid("confirmPassword", "New passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return invalid("newPassword", "Password must be at least 8 characters long")
	}
	return nil
}

// Donation checks the donor's offer.
func Donation(req dto.DonationRequest) error {
	if !models.ValidOrgan(req.OrganType) {
		return invalid("organType", "Please select an organ type.")
	}
	return nil
}

// OrganRequest checks a receiver's request.
func OrganRequest(req dto.OrganRequestForm) error {
	if !models.ValidOrgan(req.OrganType) {
		return invalid("organType", "Please select an organ type.")
	}
	if !models.ValidUrgency(req.UrgencyLevel) {
		return invalid("urgencyLevel", "Please select an urgency level.")
	}
	if !req.DoctorApproval {
		return invalid("doctorApproval", "You must confirm doctor approval to submit a request.")
	}
	return nil
}

// DateOfBirth requires a YYYY-MM-DD date strictly before today. An empty
// value passes; Profile reports it as missing.
func DateOfBirth(value string, now time.Time) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	dob, err := time.ParseInLocation(models.DateLayout, value, now.Location())
	if err != nil {
		return invalid("dateOfBirth", "Date of birth must use the YYYY-MM-DD format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !dob.Before(today) {
		return invalid("dateOfBirth", "Date of birth must be in the past")
	}
	return nil
}

// Profile checks the date of birth, then that every field required for roles
// is filled.
func Profile(p models.Profile, roles models.RoleSet, now time.Time) error {
	if err := DateOfBirth(p.DateOfBirth, now); err != nil {
		return err
	}
	if p.BloodType != "" && !validBloodType(p.BloodType) {
		return invalid("bloodType", "Please select a valid blood type")
	}
	if p.UrgencyLevel != "" && !models.ValidUrgency(models.Urgency(p.UrgencyLevel)) {
		return invalid("urgencyLevel", "Please select an urgency level.")
	}
	if missing := p.Missing(roles); len(missing) > 0 {
		return invalid(string(missing[0]), "Please complete your profile to continue using the platform.")
	}
	return nil
}

func validBloodType(bt string) bool {
	for _, known := range models.BloodTypes {
		if known == bt {
			return true
		}
	}
	return false
}
