package models

import "time"

// Status is the server-owned lifecycle state of a donation or request.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
	StatusMatched      Status = "MATCHED"
	StatusTransplanted Status = "TRANSPLANTED"
	StatusCompleted    Status = "COMPLETED"
	StatusCancelled    Status = "CANCELLED"
	StatusExpired      Status = "EXPIRED"
)

// Urgency ranks how quickly a receiver needs an organ.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

// OrganType names a donatable organ or tissue.
type OrganType string

var OrganTypes = []OrganType{
	"KIDNEY", "LIVER", "HEART", "LUNGS", "PANCREAS",
	"CORNEA", "BONE_MARROW", "SKIN", "SMALL_INTESTINE",
}

// ValidOrgan reports whether o is one of OrganTypes.
func ValidOrgan(o OrganType) bool {
	for _, known := range OrganTypes {
		if known == o {
			return true
		}
	}
	return false
}

// ValidUrgency reports whether u is one of Urgencies.
func ValidUrgency(u Urgency) bool {
	for _, known := range Urgencies {
		if known == u {
			return true
		}
	}
	return false
}

// Party is the nested donor or receiver record attached to a donation or request.
type Party struct {
	ID             int64      `json:"id"`
	BloodType      string     `json:"bloodType,omitempty"`
	MedicalHistory string     `json:"medicalHistory,omitempty"`
	IsActiveDonor  bool       `json:"isActiveDonor,omitempty"`
	WaitingSince   *time.Time `json:"waitingSince,omitempty"`
	User           *User      `json:"user,omitempty"`
}

// Donation is an organ offered by a donor.
type Donation struct {
	ID           int64      `json:"id"`
	OrganType    OrganType  `json:"organType"`
	MedicalNotes string     `json:"medicalNotes,omitempty"`
	Status       Status     `json:"donationStatus"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	Donor        *Party     `json:"donor,omitempty"`
}

// Cancelable reports whether the donor may still withdraw the donation.
func (d Donation) Cancelable() bool { return d.Status == StatusPending }

// OrganRequest is an organ sought by a receiver. Some backend versions send
// the state as "status" instead of "requestStatus".
type OrganRequest struct {
	ID             int64      `json:"id"`
	OrganType      OrganType  `json:"organType"`
	UrgencyLevel   Urgency    `json:"urgencyLevel"`
	MedicalNotes   string     `json:"medicalNotes,omitempty"`
	DoctorApproval bool       `json:"doctorApproval"`
	RequestStatus  Status     `json:"requestStatus,omitempty"`
	LegacyStatus   Status     `json:"status,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
	Receiver       *Party     `json:"receiver,omitempty"`
}

// Status returns the request state from whichever field the backend filled.
func (r OrganRequest) Status() Status {
	if r.RequestStatus != "" {
		return r.RequestStatus
	}
	return r.LegacyStatus
}

// Cancelable reports whether the receiver may still withdraw the request.
func (r OrganRequest) Cancelable() bool { return r.Status() == StatusPending }

// Match is a server-computed pairing of a donation and a request.
type Match struct {
	ID                 int64         `json:"id"`
	Donation           *Donation     `json:"donation,omitempty"`
	Request            *OrganRequest `json:"request,omitempty"`
	CompatibilityScore float64       `json:"compatibilityScore"`
	MatchNotes         string        `json:"matchNotes,omitempty"`
}
