package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DasunShanaka01/Patient-Management-System/internal/handler"
	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	"github.com/DasunShanaka01/Patient-Management-System/internal/service/appointment"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

type Handler struct {
	service    appointment.AppointmentService
	outboxRepo repository.OutboxRepository
}

func NewHandler(service appointment.AppointmentService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.CheckAvailability)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

type availabilityQuery struct {
	DoctorName string `form:"doctorName" binding:"required"`
	Date       string `form:"date" binding:"required"`
	Time       string `form:"time" binding:"required,hhmm"`
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.ValidationError(c, err)
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), q.DoctorName, q.Date, q.Time)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.ValidationError(c, err)
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_CREATE", apt)
	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.ListAppointments(
		c.Request.Context(),
		c.Query("patientId"),
		c.Query("doctorName"),
		c.Query("status"),
		c.Query("date"),
	)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.ValidationError(c, err)
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_UPDATE", apt)
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	apt, err := h.service.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_CANCEL", apt)
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.EnqueueEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_DELETE", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid appointment ID", err))
		return uuid.Nil, false
	}
	return id, true
}
