package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment holds one booked slot. Date is always UTC midnight;
// the time of day lives in Time as a 24-hour HH:MM string. PatientID
// is the patient's business identifier, checked only at write time.
type Appointment struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	PatientID  string            `db:"patient_id" json:"patientId"`
	Date       time.Time         `db:"date" json:"date"`
	Time       string            `db:"time" json:"time"`
	DoctorName string            `db:"doctor_name" json:"doctorName"`
	Status     AppointmentStatus `db:"status" json:"status"`
	CreatedAt  time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	PatientID  string `json:"patientId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required,hhmm"`
	DoctorName string `json:"doctorName" binding:"required"`
}

type UpdateAppointmentRequest struct {
	PatientID  *string `json:"patientId"`
	Date       *string `json:"date"`
	Time       *string `json:"time" binding:"omitempty,hhmm"`
	DoctorName *string `json:"doctorName"`
	Status     *string `json:"status" binding:"omitempty,oneof=scheduled cancelled completed"`
}

// AppointmentFilters are equality filters for listing. A nil Date
// means no date filter; a set Date must already be normalized.
type AppointmentFilters struct {
	PatientID  string
	DoctorName string
	Status     string
	Date       *time.Time
}
