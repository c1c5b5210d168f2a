package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Title  string `json:"title" validate:"required,notblank"`
	Status string `form:"status" validate:"omitempty,notblank"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := Register(v); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return v
}

func TestNotBlank(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		title string
		ok    bool
	}{
		{"Missing marks", true},
		{"  x ", true},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		err := v.Struct(sample{Title: tt.title})
		if (err == nil) != tt.ok {
			t.Errorf("title %q: error = %v, want ok=%v", tt.title, err, tt.ok)
		}
	}
}

func TestFieldErrorsUseTagNames(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{Title: " ", Status: " "})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}

	got := map[string]string{}
	for _, fe := range verrs {
		got[fe.Field()] = fe.Tag()
	}
	if got["title"] != TagNotBlank || got["status"] != TagNotBlank {
		t.Errorf("field errors = %v", got)
	}
}
