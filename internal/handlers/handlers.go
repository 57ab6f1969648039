package handlers

import (
	"errors"
	"net/http"

	"confreg/internal/apperrors"
	"confreg/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// actorID extracts the authenticated user set by the auth middleware.
func actorID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation:         http.StatusBadRequest,
	apperrors.KindConflict:           http.StatusConflict,
	apperrors.KindNotFound:           http.StatusNotFound,
	apperrors.KindInvalidTransition:  http.StatusUnprocessableEntity,
	apperrors.KindForbidden:          http.StatusForbidden,
	apperrors.KindStorageUnavailable: http.StatusServiceUnavailable,
}

// respondError maps a taxonomy error to its HTTP shape. Callers always get
// a stable code; free text is informational only.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeStorageUnavailable
	message := "internal error"

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if s, ok := kindStatus[appErr.Kind]; ok {
			status = s
		}
		code = appErr.Code
		message = appErr.Message
	}

	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
