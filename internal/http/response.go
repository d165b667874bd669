package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
)

// Result 统一响应包：成功 code=2000/type=success，失败 code=-1/type=error
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf 领域错误 -> HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEncoding), errors.Is(err, errBodyTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoAssessment):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLoggedOut):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrClassifierFit):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrClassifierInference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), Fail(err.Error()))
}
