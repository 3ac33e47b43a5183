package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

type mockService struct {
	CheckAvailabilityFn func(ctx context.Context, doctorName, date, timeOfDay string) (bool, error)
	CreateFn            func(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetFn               func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateFn            func(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	CancelFn            func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	DeleteFn            func(ctx context.Context, id uuid.UUID) error
	ListFn              func(ctx context.Context, patientID, doctorName, status, date string) ([]*model.Appointment, error)
}

func (m *mockService) CheckAvailability(ctx context.Context, doctorName, date, timeOfDay string) (bool, error) {
	return m.CheckAvailabilityFn(ctx, doctorName, date, timeOfDay)
}

func (m *mockService) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	return m.CreateFn(ctx, req)
}

func (m *mockService) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return m.GetFn(ctx, id)
}

func (m *mockService) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	return m.UpdateFn(ctx, id, req)
}

func (m *mockService) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return m.CancelFn(ctx, id)
}

func (m *mockService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockService) ListAppointments(ctx context.Context, patientID, doctorName, status, date string) ([]*model.Appointment, error) {
	return m.ListFn(ctx, patientID, doctorName, status, date)
}

type mockOutboxRepo struct {
	events []*model.OutboxEvent
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	return nil
}

func (m *mockOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func setupRouter(t *testing.T, svc *mockService) (*gin.Engine, *mockOutboxRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, model.RegisterValidations())

	outbox := &mockOutboxRepo{}
	engine := gin.New()
	NewHandler(svc, outbox).RegisterRoutes(engine.Group("/api"))
	return engine, outbox
}

func doRequest(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateAppointment(t *testing.T) {
	apt := &model.Appointment{
		ID:         uuid.New(),
		PatientID:  "P001",
		DoctorName: "Dr. Silva",
		Date:       time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Time:       "10:30",
		Status:     model.AppointmentStatusScheduled,
	}

	svc := &mockService{
		CreateFn: func(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
			return apt, nil
		},
	}
	engine, outbox := setupRouter(t, svc)

	w := doRequest(engine, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId":  "P001",
		"doctorName": "Dr. Silva",
		"date":       "2024-06-15",
		"time":       "10:30",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var got model.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, apt.ID, got.ID)
	assert.Equal(t, "10:30", got.Time)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "APPOINTMENT_CREATE", outbox.events[0].EventType)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	svc := &mockService{
		CreateFn: func(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
			return nil, apperrors.Conflict("Doctor not available at that time", nil)
		},
	}
	engine, outbox := setupRouter(t, svc)

	w := doRequest(engine, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId":  "P001",
		"doctorName": "Dr. Silva",
		"date":       "2024-06-15",
		"time":       "10:30",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Doctor not available at that time", body["message"])
	assert.Empty(t, outbox.events)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := &mockService{
		CreateFn: func(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
			t.Fatal("service should not be called on validation failure")
			return nil, nil
		},
	}
	engine, _ := setupRouter(t, svc)

	// 24:00 is not a valid HH:MM value.
	w := doRequest(engine, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId":  "P001",
		"doctorName": "Dr. Silva",
		"date":       "2024-06-15",
		"time":       "24:00",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "time", body.Errors[0].Field)
}

func TestGetAppointmentNotFound(t *testing.T) {
	svc := &mockService{
		GetFn: func(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
			return nil, apperrors.NotFound("appointment", nil)
		},
	}
	engine, _ := setupRouter(t, svc)

	w := doRequest(engine, http.MethodGet, "/api/appointments/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "appointment not found", body["message"])
}

func TestGetAppointmentBadID(t *testing.T) {
	engine, _ := setupRouter(t, &mockService{})

	w := doRequest(engine, http.MethodGet, "/api/appointments/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAppointment(t *testing.T) {
	id := uuid.New()
	svc := &mockService{
		CancelFn: func(ctx context.Context, gotID uuid.UUID) (*model.Appointment, error) {
			assert.Equal(t, id, gotID)
			return &model.Appointment{ID: id, Status: model.AppointmentStatusCancelled}, nil
		},
	}
	engine, outbox := setupRouter(t, svc)

	w := doRequest(engine, http.MethodPatch, "/api/appointments/"+id.String()+"/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "APPOINTMENT_CANCEL", outbox.events[0].EventType)
}

func TestCheckAvailability(t *testing.T) {
	svc := &mockService{
		CheckAvailabilityFn: func(ctx context.Context, doctorName, date, timeOfDay string) (bool, error) {
			assert.Equal(t, "Dr. Silva", doctorName)
			assert.Equal(t, "2024-06-15", date)
			assert.Equal(t, "10:30", timeOfDay)
			return false, nil
		},
	}
	engine, _ := setupRouter(t, svc)

	w := doRequest(engine, http.MethodGet, "/api/appointments/availability?doctorName=Dr.+Silva&date=2024-06-15&time=10:30", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body["available"])
}

func TestCheckAvailabilityMissingParams(t *testing.T) {
	engine, _ := setupRouter(t, &mockService{})

	w := doRequest(engine, http.MethodGet, "/api/appointments/availability?doctorName=Dr.+Silva", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAppointment(t *testing.T) {
	id := uuid.New()
	svc := &mockService{
		DeleteFn: func(ctx context.Context, gotID uuid.UUID) error {
			assert.Equal(t, id, gotID)
			return nil
		},
	}
	engine, outbox := setupRouter(t, svc)

	w := doRequest(engine, http.MethodDelete, "/api/appointments/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Appointment deleted", body["message"])

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "APPOINTMENT_DELETE", outbox.events[0].EventType)
}
