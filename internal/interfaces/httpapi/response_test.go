package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		reason string
	}{
		{err: fmt.Errorf("%w: player=1", usecase.ErrNotFound), status: http.StatusNotFound, reason: "NOT_FOUND"},
		{err: fmt.Errorf("%w: team exists", usecase.ErrConflict), status: http.StatusConflict, reason: "ALREADY_EXISTS"},
		{err: fmt.Errorf("%w: drafts", usecase.ErrUnsupported), status: http.StatusNotImplemented, reason: "UNIMPLEMENTED"},
		{err: fmt.Errorf("%w: redis", usecase.ErrDependencyUnavailable), status: http.StatusServiceUnavailable, reason: "UNAVAILABLE"},
		{err: fmt.Errorf("write board: %w: %w", usecase.ErrDependencyUnavailable, kvstore.ErrQuotaExceeded), status: http.StatusInsufficientStorage, reason: "RESOURCE_EXHAUSTED"},
		{err: fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, resilience.ErrCircuitOpen), status: http.StatusServiceUnavailable, reason: "UNAVAILABLE"},
		{err: fmt.Errorf("boom"), status: http.StatusInternalServerError, reason: "INTERNAL"},
	}

	for _, tc := range cases {
		got := mapError(context.Background(), tc.err)
		if got.HTTPStatus != tc.status || got.Status != tc.reason {
			t.Fatalf("mapError(%v) = %+v, want %d %s", tc.err, got, tc.status, tc.reason)
		}
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("select players: pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil || body.Error.Message != internalMessage {
		t.Fatalf("expected generic message, got %+v", body.Error)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != "internalError" {
		t.Fatalf("unexpected error items: %+v", body.Error.Errors)
	}
}
