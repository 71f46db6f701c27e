package controller

import (
	"errors"
	"net/http"

	"shoplytics_v1_202601/internal/service"
)

// statusForError 业务错误到 HTTP 状态码的映射
// 未识别的错误一律 500
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUserDisabled):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrDomainExists),
		errors.Is(err, service.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidOldPassword),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
