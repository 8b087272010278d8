// SPDX-License-Identifier: MPL-2.0

package script

import (
	"strings"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

const (
	urlMarker         = "http"
	conditionalMarker = "??"
	hexPrefix         = "0x"
)

// packageExtensions lists the file extensions of recognized plugin packages.
var packageExtensions = []string{".dat", ".sc4lot", ".sc4desc", ".sc4model", ".dll"}

type (
	// Rule is one classified script line. Dependency is non-nil exactly when
	// Kind.IsDependency() is true.
	Rule struct {
		Kind Kind
		// Text is the trimmed line.
		Text string
		// Dependency holds the parsed fields of a dependency line.
		Dependency *DependencyRule
	}

	// DependencyRule is a script rule asserting that a file or TGI must be
	// present, optionally only when another item is present.
	DependencyRule struct {
		// SearchItem is the file name or canonical TGI text to look for.
		SearchItem string
		// ConditionalItem gates the rule; empty for unconditional rules.
		ConditionalItem string
		IsSearchItemTGI bool
		// IsConditionalItemTGI is false when ConditionalItem is empty.
		IsConditionalItemTGI bool
		// SourceName is the display text of the download link. It defaults to
		// SourceURL when the script gives no name.
		SourceName string
		SourceURL  string
		// Unchecked marks legacy declarations whose search item is neither a
		// package file nor a TGI and therefore cannot be verified.
		Unchecked bool
	}
)

// IsConditional reports whether the rule has a conditional item.
func (d DependencyRule) IsConditional() bool {
	return d.ConditionalItem != ""
}

// LinkText returns the text to show for the download link.
func (d DependencyRule) LinkText() string {
	if d.SourceName == "" {
		return d.SourceURL
	}
	return d.SourceName
}

// Parse trims and classifies line, parsing dependency fields when relevant.
func Parse(line string) Rule {
	text := strings.TrimSpace(line)
	r := Rule{Kind: Classify(text), Text: text}
	if r.Kind.IsDependency() {
		dep := ParseDependency(text)
		r.Dependency = &dep
	}
	return r
}

// ParseDependency extracts the fields of a dependency or conditional
// dependency line. It never fails: lines without a semicolon or URL produce
// an unchecked rule carrying whatever could be recovered.
func ParseDependency(line string) DependencyRule {
	line = strings.TrimSpace(line)

	semicolon := strings.IndexByte(line, ';')
	conditional := strings.Index(line, conditionalMarker)
	httpIdx := indexFold(line, urlMarker)

	// The conditional marker only counts when it precedes the semicolon; a
	// "??" inside the link text or URL is literal.
	if semicolon >= 0 && conditional > semicolon {
		conditional = -1
	}

	itemsEnd := len(line)
	switch {
	case semicolon >= 0:
		itemsEnd = semicolon
	case httpIdx >= 0:
		itemsEnd = httpIdx
	}
	if conditional > itemsEnd {
		conditional = -1
	}

	var d DependencyRule
	if conditional >= 0 {
		d.SearchItem = strings.TrimSpace(line[:conditional])
		d.ConditionalItem = strings.TrimSpace(line[conditional+len(conditionalMarker) : itemsEnd])
	} else {
		d.SearchItem = strings.TrimSpace(line[:itemsEnd])
	}

	if httpIdx >= 0 {
		d.SourceURL = strings.TrimSpace(line[httpIdx:])
		if semicolon >= 0 && semicolon < httpIdx {
			d.SourceName = strings.TrimSpace(line[semicolon+1 : httpIdx])
		}
	}
	if d.SourceName == "" {
		d.SourceName = d.SourceURL
	}

	cutoff := itemsEnd
	if conditional >= 0 {
		cutoff = conditional
	}
	head := line[:cutoff]
	d.Unchecked = !hasPackageExtension(head) && tgi.CountHexPrefixes(head) != 3

	d.IsSearchItemTGI, d.SearchItem = normalizeItem(d.SearchItem)
	if d.ConditionalItem != "" {
		d.IsConditionalItemTGI, d.ConditionalItem = normalizeItem(d.ConditionalItem)
	}

	// A dependency without a link cannot tell the user where to get the item.
	if d.SourceURL == "" {
		d.Unchecked = true
	}
	return d
}

// normalizeItem reports whether item is a TGI and returns it in canonical
// form when it is. Items that look like TGIs but do not parse are returned
// unchanged and still flagged, so lookups fail instead of matching a file.
func normalizeItem(item string) (bool, string) {
	if len(item) < 2 || !strings.EqualFold(item[:2], hexPrefix) {
		return false, item
	}
	clean, err := tgi.CleanFormat(item)
	if err != nil {
		return true, item
	}
	return true, clean
}

// hasPackageExtension reports whether s ends with a recognized package
// extension, ignoring case.
func hasPackageExtension(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, ext := range packageExtensions {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

// IsPackageFile reports whether name has a recognized package extension.
func IsPackageFile(name string) bool {
	return hasPackageExtension(name)
}
