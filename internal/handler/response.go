package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error writes err with the HTTP status matching its error code.
func Error(c *gin.Context, err error) {
	c.JSON(statusFor(err), NewErrorResponse(err.Error()))
}

func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrCapacityExceeded:
		return http.StatusConflict
	case apperrors.ErrStorageUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
