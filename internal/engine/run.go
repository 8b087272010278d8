// SPDX-License-Identifier: MPL-2.0

package engine

import "fmt"

const (
	// StyleBlackStd is ordinary report text.
	StyleBlackStd RunStyle = iota
	// StyleBlackMono is fixed-width text such as the summary banner.
	StyleBlackMono
	// StyleBlackMonoBold is emphasized fixed-width text.
	StyleBlackMonoBold
	// StyleBlackHeading is a user heading line (">#").
	StyleBlackHeading
	// StyleBlueStd marks rule items: removal patterns and dependency names.
	StyleBlueStd
	// StyleBlueMono marks matched file names and the found summary line.
	StyleBlueMono
	// StyleRedStd marks folders and missing items.
	StyleRedStd
	// StyleRedMono marks error labels such as "Missing: ".
	StyleRedMono
	// StyleGreenStd is a user comment line (">").
	StyleGreenStd
	// StyleHyperlink is a link whose URL is carried in FormattedRun.URL.
	StyleHyperlink
	// StyleHyperlinkMono is a fixed-width link.
	StyleHyperlinkMono
)

type (
	// RunStyle is the presentation hint attached to a FormattedRun.
	RunStyle int

	// FormattedRun is one styled text segment of a report line. URL is only
	// set for the hyperlink styles.
	FormattedRun struct {
		Text  string
		Style RunStyle
		URL   string
	}
)

var styleNames = [...]string{
	StyleBlackStd:      "black-std",
	StyleBlackMono:     "black-mono",
	StyleBlackMonoBold: "black-mono-bold",
	StyleBlackHeading:  "black-heading",
	StyleBlueStd:       "blue-std",
	StyleBlueMono:      "blue-mono",
	StyleRedStd:        "red-std",
	StyleRedMono:       "red-mono",
	StyleGreenStd:      "green-std",
	StyleHyperlink:     "hyperlink",
	StyleHyperlinkMono: "hyperlink-mono",
}

// String returns the kebab-case name of the style.
func (s RunStyle) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("RunStyle(%d)", int(s))
}

// IsHyperlink reports whether runs of this style carry a URL.
func (s RunStyle) IsHyperlink() bool {
	return s == StyleHyperlink || s == StyleHyperlinkMono
}

// Text returns an unstyled run.
func Text(s string) FormattedRun {
	return FormattedRun{Text: s, Style: StyleBlackStd}
}

// Styled returns a run with the given style.
func Styled(s string, style RunStyle) FormattedRun {
	return FormattedRun{Text: s, Style: style}
}

// Link returns a hyperlink run.
func Link(text, url string) FormattedRun {
	return FormattedRun{Text: text, Style: StyleHyperlink, URL: url}
}
