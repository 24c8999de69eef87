package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeConfig, "bad config")

	if err.Code != CodeConfig {
		t.Errorf("expected code=%s, got %s", CodeConfig, err.Code)
	}
	if err.Message != "bad config" {
		t.Errorf("expected message='bad config', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeSchema, "Colonne manquante: Prompt"),
			contains: []string{"SCHEMA_ERROR", "Colonne manquante: Prompt"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeUnavailable,
				Message: "read failed",
				Op:      "sheets.read",
			},
			contains: []string{"sheets.read", "UNAVAILABLE", "read failed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	original := fmt.Errorf("original error")
	wrapped := Wrap(original, "veo.submit", "submit failed")

	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "veo.submit" {
		t.Errorf("expected op='veo.submit', got %s", wrapped.Op)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
	if Wrap(nil, "op", "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	wrapped := Wrap(MissingColumn("Statut"), "processor.columns", "resolve columns")

	if wrapped.Code != CodeSchema {
		t.Errorf("expected code to be preserved as %s, got %s", CodeSchema, wrapped.Code)
	}
	if wrapped.Fields["column"] != "Statut" {
		t.Errorf("expected column field to be preserved, got %v", wrapped.Fields)
	}
}

func TestWrapWithCode(t *testing.T) {
	wrapped := WrapWithCode(fmt.Errorf("dial tcp: refused"), CodeUnavailable, "sheets.read", "sheet read failed")

	if wrapped.Code != CodeUnavailable {
		t.Errorf("expected code=%s, got %s", CodeUnavailable, wrapped.Code)
	}
	if WrapWithCode(nil, CodeTimeout, "op", "msg") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeBadRequest, 400},
		{CodeUnauthorized, 401},
		{CodeNotFound, 404},
		{CodeConfig, 500},
		{CodeSchema, 500},
		{CodeInternal, 500},
		{CodeUnavailable, 503},
		{CodeTimeout, 504},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "test").HTTPStatus(); got != tt.status {
				t.Errorf("expected status=%d, got %d", tt.status, got)
			}
		})
	}
}

func TestMissingEnv(t *testing.T) {
	err := MissingEnv("GOOGLE_SHEET_ID", "GOOGLE_API_KEY")

	if err.Code != CodeConfig {
		t.Errorf("expected code=%s, got %s", CodeConfig, err.Code)
	}
	if err.Message != "Variables environnement manquantes: GOOGLE_SHEET_ID, GOOGLE_API_KEY" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestMissingColumn(t *testing.T) {
	err := MissingColumn("URL Image")

	if err.Message != "Colonne manquante: URL Image" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if GetFields(err)["column"] != "URL Image" {
		t.Errorf("expected column field, got %v", err.Fields)
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"schema", MissingColumn("Type"), "Colonne manquante: Type"},
		{"wrapped schema", Wrap(MissingColumn("Type"), "processor.columns", "resolve columns"), "Colonne manquante: Type"},
		{"config", MissingEnv("GOOGLE_API_KEY"), "Variables environnement manquantes: GOOGLE_API_KEY"},
		{"standard", fmt.Errorf("boom"), "boom"},
		{"unavailable", WrapWithCode(fmt.Errorf("eof"), CodeUnavailable, "sheets.read", "read failed"), "sheets.read: [UNAVAILABLE] read failed: eof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicMessage(tt.err); got != tt.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(New(CodeNotFound, "x")) != CodeNotFound {
		t.Error("expected NOT_FOUND from custom error")
	}
	if GetCode(fmt.Errorf("standard error")) != CodeInternal {
		t.Error("expected INTERNAL_ERROR from standard error")
	}
	if !IsCode(fmt.Errorf("ctx: %w", MissingColumn("Prompt")), CodeSchema) {
		t.Error("expected SCHEMA_ERROR through fmt wrapping")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if GetHTTPStatus(Unauthorized("nope")) != 401 {
		t.Error("expected 401 for unauthorized")
	}
	if GetHTTPStatus(fmt.Errorf("standard")) != 500 {
		t.Error("expected 500 for standard error")
	}
}

func TestStackTrace(t *testing.T) {
	stack := New(CodeInternal, "test error").StackTrace()
	if !strings.Contains(stack, ".go:") {
		t.Errorf("expected stack trace to contain file references, got: %s", stack)
	}
}

func TestErrorIs(t *testing.T) {
	if !errors.Is(MissingColumn("Prompt"), MissingColumn("Type")) {
		t.Error("expected errors with same code to match with Is")
	}
	if errors.Is(MissingColumn("Prompt"), MissingEnv("X")) {
		t.Error("expected errors with different codes to not match")
	}
}

func TestAsAndIs(t *testing.T) {
	original := Unavailable("sheets")
	wrapped := fmt.Errorf("wrapped: %w", original)

	var target *Error
	if !As(wrapped, &target) {
		t.Fatal("expected As to find Error in chain")
	}
	if target.Code != CodeUnavailable {
		t.Errorf("expected code=%s, got %s", CodeUnavailable, target.Code)
	}
	if !Is(wrapped, original) {
		t.Error("expected Is to match original error")
	}
}
