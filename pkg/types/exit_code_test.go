// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "missing dependencies", value: ExitMissingDependencies, wantValid: true},
		{name: "interrupted", value: ExitInterrupted, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1},
		{name: "256 is invalid", value: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if err != nil && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	for code, want := range map[ExitCode]bool{ExitSuccess: true, ExitFailure: false, ExitMissingDependencies: false} {
		if got := code.IsSuccess(); got != want {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", code, got, want)
		}
	}
}
