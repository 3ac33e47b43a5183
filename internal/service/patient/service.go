package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/dateutil"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	SearchPatients(ctx context.Context, name, patientID string) ([]*model.Patient, error)
	GetPatient(ctx context.Context, patientID string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error)
	UpdateAddress(ctx context.Context, patientID, address string) (*model.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
}

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type Service struct {
	repo  repository.PatientRepository
	cache *gocache.Cache
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	dob, err := dateutil.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.BadRequest("dateOfBirth must be a valid date", err)
	}

	patient := &model.Patient{
		ID:                  uuid.New(),
		PatientID:           req.PatientID,
		Name:                req.Name,
		NIC:                 req.NIC,
		DateOfBirth:         dateutil.Normalize(dob),
		Address:             req.Address,
		PreviousCaseHistory: req.PreviousCaseHistory,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	patient.Age = dateutil.Age(patient.DateOfBirth, time.Now())
	return patient, nil
}

func (s *Service) SearchPatients(ctx context.Context, name, patientID string) ([]*model.Patient, error) {
	patients, err := s.repo.Search(ctx, &model.PatientFilters{
		Name:      name,
		PatientID: patientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	now := time.Now()
	for _, p := range patients {
		p.Age = dateutil.Age(p.DateOfBirth, now)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*model.Patient, error) {
	if cached, ok := s.cache.Get(patientID); ok {
		p := cached.(model.Patient)
		p.Age = dateutil.Age(p.DateOfBirth, time.Now())
		return &p, nil
	}

	patient, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	s.cache.SetDefault(patientID, *patient)
	patient.Age = dateutil.Age(patient.DateOfBirth, time.Now())
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := applyPatientUpdate(patient, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.cache.Delete(patientID)
	patient.Age = dateutil.Age(patient.DateOfBirth, time.Now())
	return patient, nil
}

func (s *Service) UpdateAddress(ctx context.Context, patientID, address string) (*model.Patient, error) {
	return s.UpdatePatient(ctx, patientID, &model.UpdatePatientRequest{Address: &address})
}

func (s *Service) DeletePatient(ctx context.Context, patientID string) error {
	if err := s.repo.Delete(ctx, patientID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.cache.Delete(patientID)
	return nil
}

// applyPatientUpdate merges the set fields onto the record. The
// patientId field is deliberately never applied, even when present.
func applyPatientUpdate(patient *model.Patient, req *model.UpdatePatientRequest) error {
	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.NIC != nil {
		patient.NIC = *req.NIC
	}
	if req.DateOfBirth != nil {
		dob, err := dateutil.ParseDate(*req.DateOfBirth)
		if err != nil {
			return apperrors.BadRequest("dateOfBirth must be a valid date", err)
		}
		patient.DateOfBirth = dateutil.Normalize(dob)
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.PreviousCaseHistory != nil {
		patient.PreviousCaseHistory = *req.PreviousCaseHistory
	}
	return nil
}
