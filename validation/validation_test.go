package validation

import (
	"testing"

	"github.com/skillsenselab/identity/errors"
)

type loginForm struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	form := loginForm{Username: "anish", Password: "password123"}
	if err := Validate(form); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	form := loginForm{Username: "", Password: "short"}
	err := Validate(form)
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
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(fields))
	}
	if fields[0].Field != "username" {
		t.Errorf("expected json tag name 'username', got %s", fields[0].Field)
	}
}

func TestValidate_EmailTag(t *testing.T) {
	type form struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := Validate(form{Email: "not-an-email"}); err == nil {
		t.Error("expected email validation to fail")
	}
	if err := Validate(form{Email: "anish@example.com"}); err != nil {
		t.Errorf("expected valid email, got %v", err)
	}
}
