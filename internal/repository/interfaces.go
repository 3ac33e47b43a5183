package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByPatientID(ctx context.Context, patientID string) (*model.Patient, error)
	Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, patientID string) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)

	// HasConflict reports whether a non-cancelled appointment already
	// occupies the (doctorName, date, time) slot. excludeID, when set,
	// removes one appointment from consideration so a record can be
	// checked against everything but itself.
	HasConflict(ctx context.Context, doctorName string, date time.Time, timeOfDay string, excludeID *uuid.UUID) (bool, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
