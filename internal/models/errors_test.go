package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "ErrPersonNotFound", err: ErrPersonNotFound, expectedMsg: "person not found"},
		{name: "ErrInvalidCPF", err: ErrInvalidCPF, expectedMsg: "invalid CPF"},
		{name: "ErrDuplicateCPF", err: ErrDuplicateCPF, expectedMsg: "CPF already registered"},
		{name: "ErrInvalidPersonID", err: ErrInvalidPersonID, expectedMsg: "invalid person ID"},
		{name: "ErrNotAuthenticated", err: ErrNotAuthenticated, expectedMsg: "not authenticated"},
		{name: "ErrSessionExpired", err: ErrSessionExpired, expectedMsg: "session expired"},
		{name: "ErrSessionNotFound", err: ErrSessionNotFound, expectedMsg: "session not found"},
		{name: "ErrMissingCredentials", err: ErrMissingCredentials, expectedMsg: "email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.expectedMsg)
			}

			wrapped := fmt.Errorf("loading page: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is should match wrapped %s", tt.name)
			}
		})
	}
}

func TestErrorUniqueness(t *testing.T) {
	errorVars := []error{
		ErrPersonNotFound,
		ErrInvalidCPF,
		ErrDuplicateCPF,
		ErrInvalidPersonID,
		ErrNotAuthenticated,
		ErrSessionExpired,
		ErrSessionNotFound,
		ErrMissingCredentials,
	}

	for i, err1 := range errorVars {
		for j, err2 := range errorVars {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Error at index %d and %d are the same: %v", i, j, err1)
			}
		}
	}
}
