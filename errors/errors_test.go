package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad", http.StatusBadRequest)
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_InvalidInput(t *testing.T) {
	err := InvalidInput("take", "count must not be negative")
	if err.Details["field"] != "take" {
		t.Errorf("expected field=take, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Error(), "count must not be negative") {
		t.Errorf("message missing reason: %q", err.Error())
	}
}

func TestAppError_InvalidInput_EmptyField(t *testing.T) {
	err := InvalidInput("", "nope")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no field detail when field is empty")
	}
}

func TestAppError_StageFailed(t *testing.T) {
	cause := fmt.Errorf("division by zero")
	err := StageFailed(2, "map", cause)
	if err.Code != ErrCodeStageFailed {
		t.Errorf("expected STAGE_FAILED, got %s", err.Code)
	}
	if err.Details["stage"] != 2 || err.Details["kind"] != "map" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := Internal(nil).WithDetail("run", "abc")
	if err.Details["run"] != "abc" {
		t.Errorf("expected detail run=abc, got %v", err.Details)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingField("source"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError through wrapping")
	}
	if appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", appErr.Code)
	}
	if !HasCode(wrapped, ErrCodeMissingField) {
		t.Error("HasCode should match wrapped AppError")
	}
	if HasCode(stderrors.New("plain"), ErrCodeMissingField) {
		t.Error("HasCode should not match a plain error")
	}
}

func TestAppError_ToResponse(t *testing.T) {
	resp := InvalidFormat("mode", "lazy|eager").ToResponse()
	if resp.Error.Code != ErrCodeInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %s", resp.Error.Code)
	}
	if resp.Error.Details["expected_format"] != "lazy|eager" {
		t.Errorf("unexpected details %v", resp.Error.Details)
	}
}

func TestIsAppError(t *testing.T) {
	if IsAppError(stderrors.New("x")) {
		t.Error("plain error reported as AppError")
	}
	if !IsAppError(NotFound("route")) {
		t.Error("AppError not detected")
	}
}
