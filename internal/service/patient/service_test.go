package patient

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

var _ repository.PatientRepository = (*mockPatientRepo)(nil)

type mockPatientRepo struct {
	CreateFunc         func(ctx context.Context, patient *model.Patient) error
	GetByPatientIDFunc func(ctx context.Context, patientID string) (*model.Patient, error)
	SearchFunc         func(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	UpdateFunc         func(ctx context.Context, patient *model.Patient) error
	DeleteFunc         func(ctx context.Context, patientID string) error

	GetCallCount int32
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepo) GetByPatientID(ctx context.Context, patientID string) (*model.Patient, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetByPatientIDFunc != nil {
		return m.GetByPatientIDFunc(ctx, patientID)
	}
	return nil, errors.New("GetByPatientIDFunc not implemented in mock")
}

func (m *mockPatientRepo) Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filters)
	}
	return nil, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepo) Delete(ctx context.Context, patientID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, patientID)
	}
	return nil
}

func storedPatient() *model.Patient {
	return &model.Patient{
		PatientID:   "P001",
		Name:        "Nimal Perera",
		NIC:         "200012345678",
		DateOfBirth: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC),
		Address:     "12 Galle Rd",
	}
}

func TestCreatePatient(t *testing.T) {
	var created *model.Patient
	repo := &mockPatientRepo{
		CreateFunc: func(ctx context.Context, p *model.Patient) error {
			created = p
			return nil
		},
	}
	svc := NewService(repo)

	p, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientID:   "P001",
		Name:        "Nimal Perera",
		NIC:         "200012345678",
		DateOfBirth: "2000-06-15",
		Address:     "12 Galle Rd",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), p.DateOfBirth)
	assert.GreaterOrEqual(t, p.Age, 24)
}

func TestCreatePatientDuplicate(t *testing.T) {
	repo := &mockPatientRepo{
		CreateFunc: func(ctx context.Context, p *model.Patient) error {
			return apperrors.Conflict("patientId or NIC already exists", nil)
		},
	}
	svc := NewService(repo)

	_, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientID:   "P002",
		Name:        "Another Person",
		NIC:         "200012345678",
		DateOfBirth: "1999-01-01",
		Address:     "34 Kandy Rd",
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreatePatientBadDateOfBirth(t *testing.T) {
	svc := NewService(&mockPatientRepo{})

	_, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientID:   "P001",
		Name:        "Nimal Perera",
		NIC:         "200012345678",
		DateOfBirth: "15/06/2000",
		Address:     "12 Galle Rd",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestGetPatientComputesAge(t *testing.T) {
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
	}
	svc := NewService(repo)

	p, err := svc.GetPatient(context.Background(), "P001")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Age, 24)
}

func TestGetPatientCachesLookups(t *testing.T) {
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
	}
	svc := NewService(repo)

	_, err := svc.GetPatient(context.Background(), "P001")
	require.NoError(t, err)
	_, err = svc.GetPatient(context.Background(), "P001")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.GetCallCount))
}

func TestGetPatientNotFound(t *testing.T) {
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return nil, apperrors.NotFound("patient", nil)
		},
	}
	svc := NewService(repo)

	_, err := svc.GetPatient(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdatePatientIgnoresPatientID(t *testing.T) {
	var saved *model.Patient
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
		UpdateFunc: func(ctx context.Context, p *model.Patient) error {
			saved = p
			return nil
		},
	}
	svc := NewService(repo)

	newID := "P999"
	newAddr := "99 New St"
	p, err := svc.UpdatePatient(context.Background(), "P001", &model.UpdatePatientRequest{
		PatientID: &newID,
		Address:   &newAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, "P001", p.PatientID)
	assert.Equal(t, "99 New St", p.Address)
	require.NotNil(t, saved)
	assert.Equal(t, "P001", saved.PatientID)
}

func TestUpdatePatientNICConflict(t *testing.T) {
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
		UpdateFunc: func(ctx context.Context, p *model.Patient) error {
			return apperrors.Conflict("NIC already exists", nil)
		},
	}
	svc := NewService(repo)

	nic := "taken"
	_, err := svc.UpdatePatient(context.Background(), "P001", &model.UpdatePatientRequest{NIC: &nic})
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdateAddress(t *testing.T) {
	var saved *model.Patient
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
		UpdateFunc: func(ctx context.Context, p *model.Patient) error {
			saved = p
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.UpdateAddress(context.Background(), "P001", "7 Lake View")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "7 Lake View", saved.Address)
	assert.Equal(t, "Nimal Perera", saved.Name)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &mockPatientRepo{
		GetByPatientIDFunc: func(ctx context.Context, patientID string) (*model.Patient, error) {
			return storedPatient(), nil
		},
	}
	svc := NewService(repo)

	_, err := svc.GetPatient(context.Background(), "P001")
	require.NoError(t, err)

	addr := "7 Lake View"
	_, err = svc.UpdatePatient(context.Background(), "P001", &model.UpdatePatientRequest{Address: &addr})
	require.NoError(t, err)

	_, err = svc.GetPatient(context.Background(), "P001")
	require.NoError(t, err)

	// first Get, the Update's fetch, then a fresh Get after invalidation
	assert.Equal(t, int32(3), atomic.LoadInt32(&repo.GetCallCount))
}

func TestDeletePatientNotFound(t *testing.T) {
	repo := &mockPatientRepo{
		DeleteFunc: func(ctx context.Context, patientID string) error {
			return apperrors.NotFound("patient", nil)
		},
	}
	svc := NewService(repo)

	err := svc.DeletePatient(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchPatientsPassesFilters(t *testing.T) {
	var gotFilters *model.PatientFilters
	repo := &mockPatientRepo{
		SearchFunc: func(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
			gotFilters = filters
			return []*model.Patient{storedPatient()}, nil
		},
	}
	svc := NewService(repo)

	patients, err := svc.SearchPatients(context.Background(), "nimal", "")
	require.NoError(t, err)
	assert.Equal(t, "nimal", gotFilters.Name)
	require.Len(t, patients, 1)
	assert.GreaterOrEqual(t, patients[0].Age, 24)
}
