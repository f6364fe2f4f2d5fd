package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "draft-board"
	internalMessage  = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRules is matched top to bottom, so storage causes come before the
// use case sentinel that wraps them.
var errorRules = []struct {
	target error
	mapped mappedError
}{
	{resilience.ErrCircuitOpen, mappedError{http.StatusServiceUnavailable, "circuitOpen", "UNAVAILABLE"}},
	{kvstore.ErrQuotaExceeded, mappedError{http.StatusInsufficientStorage, "storageQuotaExceeded", "RESOURCE_EXHAUSTED"}},
	{backup.ErrInvalidSnapshot, mappedError{http.StatusBadRequest, "invalidBackup", "INVALID_ARGUMENT"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflict", "ALREADY_EXISTS"}},
	{usecase.ErrUnsupported, mappedError{http.StatusNotImplemented, "unsupportedStorageMode", "UNIMPLEMENTED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, internalMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders err in the error envelope. Unmapped errors are
// reported as a bare internal error so storage details stay in the logs.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	msg := internalMessage
	if mapped.HTTPStatus != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeErrorBody(w, mapped, msg)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorBody(w, internalError, internalMessage)
}

func writeErrorBody(w http.ResponseWriter, mapped mappedError, msg string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: msg,
			}},
		},
	})
}

func mapError(_ context.Context, err error) mappedError {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalError
}
