// SPDX-License-Identifier: MPL-2.0

package engine

import "strings"

// PlainText renders runs without styling. Hyperlinks whose text differs from
// their URL are followed by the URL in angle brackets.
func PlainText(runs []FormattedRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
		if r.Style.IsHyperlink() && r.URL != "" && r.URL != r.Text {
			b.WriteString(" <" + r.URL + ">")
		}
	}
	return b.String()
}
