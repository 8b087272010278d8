// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "config.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("plain error is wrapped with the file path", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk on fire")
		err := FormatError(cause, "config.cue")
		if !errors.Is(err, cause) {
			t.Fatalf("FormatError() = %v, want it to wrap the cause", err)
		}
		if !strings.HasPrefix(err.Error(), "config.cue: ") {
			t.Errorf("error should start with the file path, got %q", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "single", path: []string{"verbose"}, want: "verbose"},
		{name: "nested", path: []string{"ui", "color_scheme"}, want: "ui.color_scheme"},
		{name: "index", path: []string{"additional_folders", "0"}, want: "additional_folders[0]"},
		{name: "index then field", path: []string{"roots", "2", "path"}, want: "roots[2].path"},
		{name: "leading digits are a field", path: []string{"0", "x"}, want: "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "under limit", size: 99},
		{name: "at limit", size: 100},
		{name: "over limit", size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "config.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "101") {
				t.Errorf("error should contain the actual size, got %q", err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	single := &ValidationError{FilePath: "config.cue", Problems: []string{"workers: invalid value"}}
	if got, want := single.Error(), "config.cue: workers: invalid value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &ValidationError{FilePath: "config.cue", Problems: []string{"a: x", "b: y"}}
	if got, want := multi.Error(), "config.cue: validation failed:\n  a: x\n  b: y"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(single, ErrValidation) {
		t.Error("ValidationError should wrap ErrValidation")
	}
}
