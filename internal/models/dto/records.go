package dto

import "github.com/hongminglow/lifelink/internal/models"

type DonationRequest struct {
	OrganType    models.OrganType `json:"organType"`
	MedicalNotes string           `json:"medicalNotes"`
}

type OrganRequestForm struct {
	OrganType      models.OrganType `json:"organType"`
	UrgencyLevel   models.Urgency   `json:"urgencyLevel"`
	MedicalNotes   string           `json:"medicalNotes"`
	DoctorApproval bool             `json:"doctorApproval"`
}
