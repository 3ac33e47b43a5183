package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository"
	apperrors "github.com/DasunShanaka01/Patient-Management-System/pkg/errors"
)

// FieldError is one entry in a validation failure response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error writes the response for a service error, mapping AppError
// kinds to their HTTP status. Anything unrecognized becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"message": appErr.Message})
		if appErr.Code == apperrors.ErrInternal {
			_ = c.Error(err)
		}
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// ValidationError writes a 400 with a structured field-error list.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Message: err.Error()}}})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "hhmm":
		return "must be HH:mm in 24h format"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

// EnqueueEvent records an outbox event for asynchronous publication.
// Failures are logged, never surfaced: the write that triggered the
// event has already succeeded.
func EnqueueEvent(ctx context.Context, repo repository.OutboxRepository, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}
	if err := repo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   body,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to create outbox event")
	}
}
