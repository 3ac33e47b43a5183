package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/dateutil"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

// AppointmentService books, reschedules and releases doctor slots
// while holding the invariant that a (doctor, date, time) slot is
// occupied by at most one non-cancelled appointment.
type AppointmentService interface {
	CheckAvailability(ctx context.Context, doctorName, date, timeOfDay string) (bool, error)
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	ListAppointments(ctx context.Context, patientID, doctorName, status, date string) ([]*model.Appointment, error)
}

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
	}
}

func (s *Service) CheckAvailability(ctx context.Context, doctorName, date, timeOfDay string) (bool, error) {
	day, err := parseDay(date)
	if err != nil {
		return false, err
	}

	conflict, err := s.repo.HasConflict(ctx, doctorName, day, timeOfDay, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return !conflict, nil
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByPatientID(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}

	// Pre-check gives the friendly 409 path; the unique index on the
	// slot catches whatever slips through between check and insert.
	conflict, err := s.repo.HasConflict(ctx, req.DoctorName, day, req.Time, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return nil, apperrors.Conflict("Doctor not available at that time", nil)
	}

	apt := &model.Appointment{
		ID:         uuid.New(),
		PatientID:  req.PatientID,
		Date:       day,
		Time:       req.Time,
		DoctorName: req.DoctorName,
		Status:     model.AppointmentStatusScheduled,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if req.PatientID != nil && *req.PatientID != apt.PatientID {
		if _, err := s.patients.GetByPatientID(ctx, *req.PatientID); err != nil {
			return nil, fmt.Errorf("failed to verify patient: %w", err)
		}
	}

	var day *time.Time
	if req.Date != nil {
		d, err := parseDay(*req.Date)
		if err != nil {
			return nil, err
		}
		day = &d
	}

	// Re-check the slot against the effective triple whenever any of
	// its components change, ignoring this appointment itself.
	if req.DoctorName != nil || day != nil || req.Time != nil {
		doctorName := apt.DoctorName
		if req.DoctorName != nil {
			doctorName = *req.DoctorName
		}
		date := apt.Date
		if day != nil {
			date = *day
		}
		timeOfDay := apt.Time
		if req.Time != nil {
			timeOfDay = *req.Time
		}

		conflict, err := s.repo.HasConflict(ctx, doctorName, date, timeOfDay, &apt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check conflicts: %w", err)
		}
		if conflict {
			return nil, apperrors.Conflict("Doctor not available at that time", nil)
		}
	}

	applyAppointmentUpdate(apt, req, day)

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, patientID, doctorName, status, date string) ([]*model.Appointment, error) {
	filters := &model.AppointmentFilters{
		PatientID:  patientID,
		DoctorName: doctorName,
		Status:     status,
	}
	if date != "" {
		day, err := parseDay(date)
		if err != nil {
			return nil, err
		}
		filters.Date = &day
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func applyAppointmentUpdate(apt *model.Appointment, req *model.UpdateAppointmentRequest, day *time.Time) {
	if req.PatientID != nil {
		apt.PatientID = *req.PatientID
	}
	if day != nil {
		apt.Date = *day
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}
	if req.DoctorName != nil {
		apt.DoctorName = *req.DoctorName
	}
	if req.Status != nil {
		apt.Status = model.AppointmentStatus(*req.Status)
	}
}

func parseDay(date string) (time.Time, error) {
	t, err := dateutil.ParseDate(date)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("date must be a valid ISO 8601 date", err)
	}
	return dateutil.Normalize(t), nil
}
