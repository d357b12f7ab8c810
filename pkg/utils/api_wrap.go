package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps a service error onto the response envelope.
func HandleServiceError(c *gin.Context, log *zap.Logger, err error) {
	code, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, ErrNoCandidates):
		code, message = http.StatusUnprocessableEntity, "No places match the selected destination and categories"
	case errors.Is(err, ErrTripNotFound):
		code, message = http.StatusNotFound, "Trip not found"
	case errors.Is(err, ErrDayNotFound):
		code, message = http.StatusNotFound, "Day not found"
	case errors.Is(err, ErrActivityNotFound):
		code, message = http.StatusNotFound, "Activity not found"
	case errors.Is(err, ErrPlaceNotFound):
		code, message = http.StatusNotFound, "Place not found"
	case errors.Is(err, ErrInvalidInput):
		code, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrStaleGeneration):
		code, message = http.StatusConflict, "A newer generation request for this trip is in progress"
	case errors.Is(err, ErrUnauthorized):
		code, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrDatabaseError):
		log.Error("database error", zap.Error(err), zap.String("trace_id", traceID(c)))
	default:
		log.Error("unhandled service error", zap.Error(err), zap.String("trace_id", traceID(c)))
	}

	RespondError(c, code, message)
}
