// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	if len(fatalErrnos) == 0 {
		t.Fatal("no fatal errnos defined for this platform")
	}
	for _, errno := range fatalErrnos {
		if !isFatalFsnotifyError(errno) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", errno)
		}
		wrapped := fmt.Errorf("watch %s: %w", "Plugins", errno)
		if !isFatalFsnotifyError(wrapped) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", wrapped)
		}
	}

	for _, err := range []error{
		os.ErrPermission,
		os.ErrNotExist,
		errors.New("something went wrong"),
		fmt.Errorf("fsnotify: queue overflow"),
	} {
		if isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = true, want false", err)
		}
	}
}
