// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an issue page.
type Id int

// Issue ids, one per page in the catalog.
const (
	ScriptNotFoundId Id = iota + 1
	PluginsDirNotFoundId
	OutputDirNotFoundId
	ConfigLoadFailedId
	ScanFailedId
	TemplateNotFoundId
)

const wikiURL HttpLink = "https://github.com/noah-severyn/SC4Cleanitol/wiki"

// MarkdownMsg is the glamour source of an issue page.
type MarkdownMsg string

// HttpLink is a documentation URL.
type HttpLink string

// Issue is one troubleshooting page.
type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // never empty
	extLinks []HttpLink  // optional related reading
}

// Id returns the issue id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the page source.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the related reading links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page with glamour using the given style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id:       ScriptNotFoundId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Script not found!

The Cleanitol script you asked to run could not be opened.

## Things you can try:
- Check the path passed to 'cleanitol run'
- Scripts are plain text files, usually shipped with a mod as *Cleanitol.txt*
- Build a script from an existing folder:
~~~
$ cleanitol create -f ./MyMod -o MyMod-Cleanitol.txt
~~~`,
	}

	pluginsDirNotFoundIssue = &Issue{
		id:       PluginsDirNotFoundId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Plugins folder not found!

Cleanitol needs the folder your game loads plugins from.

## Usual locations:
- *Documents/SimCity 4/Plugins* (user plugins)
- *<install dir>/Plugins* (system plugins)

## Things you can try:
- Pass it explicitly:
~~~
$ cleanitol run -u "$HOME/Documents/SimCity 4/Plugins" script.txt
~~~
- Or store it once in the configuration file:
~~~cue
user_plugins: "/home/me/Documents/SimCity 4/Plugins"
~~~`,
	}

	outputDirNotFoundIssue = &Issue{
		id:       OutputDirNotFoundId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Output folder not usable!

Backups, undo scripts, TGI exports and the error log are written to the
output folder. It must exist and be writable.

## Things you can try:
- Create the folder, or choose another one with '-o'
- Check its permissions`,
	}

	configLoadFailedIssue = &Issue{
		id:       ConfigLoadFailedId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or did not match the schema.

## Things you can try:
- Show where the file is expected:
~~~
$ cleanitol config path
~~~
- Write a fresh file with the defaults:
~~~
$ cleanitol config init
~~~
- Check the values, for example 'additional_mode' must be plugins-only,
  plugins-and-additional or additional-only`,
	}

	scanFailedIssue = &Issue{
		id:       ScanFailedId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Plugin scan failed!

A plugins folder became unreadable while it was being listed, so the report
would be meaningless and none was produced.

## Things you can try:
- Close the game and any tool that may lock the folder
- Check the folder permissions
- Run again with '--verbose' for details`,
	}

	templateNotFoundIssue = &Issue{
		id:       TemplateNotFoundId,
		docLinks: []HttpLink{wikiURL},
		mdMsg: `
# Summary template not found!

The HTML template given with '--template' could not be read.

## Supported placeholders:
- #COUNTFILES, #FOLDERPATH, #HELPDOC, #LISTOFFILES, #DATETIME

## Things you can try:
- Check the path
- Omit '--template' to use the built-in summary page`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():     scriptNotFoundIssue,
		pluginsDirNotFoundIssue.Id(): pluginsDirNotFoundIssue,
		outputDirNotFoundIssue.Id():  outputDirNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		scanFailedIssue.Id():         scanFailedIssue,
		templateNotFoundIssue.Id():   templateNotFoundIssue,
	}
)

// Values returns every known issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
