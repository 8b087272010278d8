// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

const testRoot = "/plugins"

// newTestCatalog builds a catalog whose user files are the given paths
// relative to testRoot.
func newTestCatalog(t *testing.T, indexed bool, ids []tgi.TGI, rel ...string) *catalog.Catalog {
	t.Helper()
	files := make([]string, len(rel))
	for i, r := range rel {
		files[i] = filepath.Join(testRoot, filepath.FromSlash(r))
	}
	user := append([]string(nil), files...)
	return catalog.New(testRoot, files, user, append([]tgi.TGI(nil), ids...), indexed)
}

func textOf(runs []FormattedRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func findRun(runs []FormattedRun, text string) (FormattedRun, bool) {
	for _, r := range runs {
		if r.Text == text {
			return r, true
		}
	}
	return FormattedRun{}, false
}
