// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"missing dependencies", &ExitError{Code: types.ExitMissingDependencies}, types.ExitMissingDependencies},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: types.ExitMissingDependencies}), types.ExitMissingDependencies},
		{"canceled", fmt.Errorf("scan: %w", context.Canceled), types.ExitInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	e := &ExitError{Code: 1, Err: cause}
	if e.Error() != "boom" || !errors.Is(e, cause) {
		t.Errorf("ExitError with cause: Error() = %q, Is(cause) = %v", e.Error(), errors.Is(e, cause))
	}
}

func TestNewServiceError_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil) did not panic")
		}
	}()
	_ = newServiceError(nil, issue.ScanFailedId)
}

func TestClassifyRunError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	script := env.writeScript(t, "a.dat\n")

	tests := []struct {
		name string
		args []string
		want issue.Id
	}{
		{"missing script", []string{"run", script + ".missing"}, issue.ScriptNotFoundId},
		{"missing plugins", []string{"run", "-u", env.plugins + "-missing", script}, issue.PluginsDirNotFoundId},
	}
	for _, tt := range tests {
		err := env.execute(t, tt.args...)
		if got := classifyRunError(err); got != tt.want {
			t.Errorf("%s: classifyRunError(%v) = %d, want %d", tt.name, err, got, tt.want)
		}
	}
	if got := classifyRunError(os.ErrPermission); got != 0 {
		t.Errorf("classifyRunError(ErrPermission) = %d, want 0", got)
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.app.flags.plain = true
	handler := newErrorHandler(env.app)

	t.Run("service error renders suggestions and issue page", func(t *testing.T) {
		t.Parallel()

		err := newServiceError(issue.NewErrorContext().
			WithOperation("load script").
			WithResource("missing.txt").
			WithSuggestion("Check the script path").
			Wrap(os.ErrNotExist).
			BuildError(), issue.ScriptNotFoundId)

		var buf bytes.Buffer
		handler(&buf, fang.Styles{}, err)
		out := buf.String()
		for _, want := range []string{"failed to load script: missing.txt", "Check the script path", "Script not found"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("reported exit error prints nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler(&buf, fang.Styles{}, &ExitError{Code: types.ExitMissingDependencies})
		if buf.Len() != 0 {
			t.Errorf("output = %q, want empty", buf.String())
		}
	})

	t.Run("other errors use the default handler", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler(&buf, fang.Styles{}, errors.New(`unknown flag: --nope`))
		if !strings.Contains(buf.String(), "unknown flag: --nope") {
			t.Errorf("output = %q", buf.String())
		}
	})
}
