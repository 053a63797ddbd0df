package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/lazyseq/errors"
)

type scenario struct {
	Source   []int  `json:"source" validate:"max=5"`
	Take     int    `json:"take" validate:"min=0"`
	Mode     string `json:"mode" validate:"omitempty,oneof=lazy eager"`
	RunLabel string `validate:"required"`
}

func TestValidate_Valid(t *testing.T) {
	s := scenario{Source: []int{1, 2}, Take: 1, Mode: "lazy", RunLabel: "x"}
	if err := Validate(s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	s := scenario{Source: []int{1, 2, 3, 4, 5, 6}, Take: -1, Mode: "sideways"}
	err := Validate(s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(fields), fields)
	}

	msg := appErr.Message
	for _, want := range []string{
		"source: must have at most 5 items",
		"take: must be at least 0",
		"mode: must be one of: lazy eager",
		"run_label: is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestValidator_Programmatic(t *testing.T) {
	v := New()
	v.Min("port", 0, 1).
		Range("take", 5, 0, 3).
		OneOf("mode", "both", []string{"lazy", "eager"}).
		Check(false, "source", "must not be empty")

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 4 {
		t.Errorf("expected 4 errors, got %d", len(v.Errors()))
	}
	err := v.Validate()
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().Min("port", 8080, 1).OneOf("mode", "lazy", []string{"lazy"})
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Take":        "take",
		"RunLabel":    "run_label",
		"SourcePulls": "source_pulls",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
