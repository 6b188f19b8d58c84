package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "message",
				Message: "cannot be empty",
			},
			want: "validation error on field message: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_MatchesThroughWrapping(t *testing.T) {
	base := &ValidationError{Field: "message", Message: "cannot be empty"}
	wrapped := fmt.Errorf("processing chat: %w", base)

	var validationErr *ValidationError
	if !errors.As(wrapped, &validationErr) {
		t.Fatal("errors.As() did not find ValidationError through wrapping")
	}
	if validationErr.Field != "message" {
		t.Errorf("Field = %q, want %q", validationErr.Field, "message")
	}
}
