// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestWriteErrorLog(t *testing.T) {
	t.Parallel()

	base := errors.New("unexpected EOF")
	entries := []LogEntry{{
		Time:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Script: "/scripts/deps.txt",
		File:   "/plugins/bad.dat",
		Err:    fmt.Errorf("read index: %w", base),
	}}

	var buf bytes.Buffer
	if err := WriteErrorLog(&buf, entries); err != nil {
		t.Fatalf("WriteErrorLog() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"=============== Log Start ===============\n",
		"Time: 2024-01-02 03:04:05\n",
		"Script: /scripts/deps.txt\n",
		"File: /plugins/bad.dat\n",
		"Error: *fmt.wrapError: read index: unexpected EOF\n",
		"Trace:\n",
		"  *errors.errorString: unexpected EOF\n",
		"================ Log End ================\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
}

func TestWriteErrorLog_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteErrorLog(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty log wrote %q", buf.String())
	}
}
