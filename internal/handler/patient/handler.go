package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DasunShanaka01/Patient-Management-System/internal/handler"
	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	"github.com/DasunShanaka01/Patient-Management-System/internal/service/patient"
)

type Handler struct {
	service    patient.PatientService
	outboxRepo repository.OutboxRepository
}

func NewHandler(service patient.PatientService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:patientId", h.GetPatient)
		patients.PUT("/:patientId", h.UpdatePatient)
		patients.PATCH("/:patientId/address", h.UpdateAddress)
		patients.DELETE("/:patientId", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.ValidationError(c, err)
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "PATIENT_CREATE", patient)
	c.JSON(http.StatusCreated, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.SearchPatients(c.Request.Context(), c.Query("name"), c.Query("patientId"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.service.GetPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.ValidationError(c, err)
		return
	}

	patient, err := h.service.UpdatePatient(c.Request.Context(), c.Param("patientId"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "PATIENT_UPDATE", patient)
	c.JSON(http.StatusOK, patient)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var req model.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.ValidationError(c, err)
		return
	}

	patient, err := h.service.UpdateAddress(c.Request.Context(), c.Param("patientId"), req.Address)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "PATIENT_UPDATE", patient)
	c.JSON(http.StatusOK, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if err := h.service.DeletePatient(c.Request.Context(), patientID); err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "PATIENT_DELETE", gin.H{"patientId": patientID})
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted"})
}
