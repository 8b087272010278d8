// SPDX-License-Identifier: MPL-2.0

package backup

import (
	_ "embed"
	"html"
	"strconv"
	"strings"
	"time"
)

const (
	// HelpDocURL is substituted for #HELPDOC.
	HelpDocURL = "https://github.com/noah-severyn/SC4Cleanitol/wiki"

	summaryTimeLayout = "02 Jan 2006 15:04"
	fileSeparator     = "<br/>"
)

//go:embed summary_template.html
var defaultTemplate string

// DefaultTemplate returns the built-in summary page template.
func DefaultTemplate() string {
	return defaultTemplate
}

// SummaryData is substituted into a summary template.
type SummaryData struct {
	// Count is the number of files the run asked to remove.
	Count int
	// Folder is the backup folder.
	Folder string
	// Files are the original paths, in removal order.
	Files []string
	Time  time.Time
}

// RenderSummary replaces the #COUNTFILES, #FOLDERPATH, #HELPDOC, #LISTOFFILES
// and #DATETIME placeholders in tmpl. Other text, including unknown
// placeholders, is left as is. Substituted values are not rescanned.
func RenderSummary(tmpl string, data SummaryData) string {
	files := make([]string, len(data.Files))
	for i, f := range data.Files {
		files[i] = html.EscapeString(f)
	}

	r := strings.NewReplacer(
		"#COUNTFILES", strconv.Itoa(data.Count),
		"#FOLDERPATH", html.EscapeString(data.Folder),
		"#HELPDOC", HelpDocURL,
		"#LISTOFFILES", strings.Join(files, fileSeparator),
		"#DATETIME", data.Time.Format(summaryTimeLayout),
	)
	return r.Replace(tmpl)
}
