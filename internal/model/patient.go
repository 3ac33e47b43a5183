package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is keyed internally by a UUID but addressed through the
// user-supplied PatientID, which never changes after creation.
type Patient struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	PatientID           string    `db:"patient_id" json:"patientId"`
	Name                string    `db:"name" json:"name"`
	NIC                 string    `db:"nic" json:"NIC"`
	DateOfBirth         time.Time `db:"date_of_birth" json:"dateOfBirth"`
	Address             string    `db:"address" json:"address"`
	PreviousCaseHistory string    `db:"previous_case_history" json:"previousCaseHistory"`

	// Age is derived from DateOfBirth on read, never stored.
	Age int `db:"-" json:"age"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreatePatientRequest struct {
	PatientID           string `json:"patientId" binding:"required"`
	Name                string `json:"name" binding:"required"`
	NIC                 string `json:"NIC" binding:"required"`
	DateOfBirth         string `json:"dateOfBirth" binding:"required"`
	Address             string `json:"address" binding:"required"`
	PreviousCaseHistory string `json:"previousCaseHistory"`
}

// UpdatePatientRequest carries a partial update. PatientID is accepted
// in the body but never applied; the identifier is immutable.
type UpdatePatientRequest struct {
	PatientID           *string `json:"patientId"`
	Name                *string `json:"name"`
	NIC                 *string `json:"NIC"`
	DateOfBirth         *string `json:"dateOfBirth"`
	Address             *string `json:"address"`
	PreviousCaseHistory *string `json:"previousCaseHistory"`
}

type UpdateAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

type PatientFilters struct {
	Name      string
	PatientID string
}
