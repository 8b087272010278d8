// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/pkg/script"
)

func newClassifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <line>",
		Short: "Show how a script line is understood",
		Long: `Show how a script line is understood: its kind and, for dependency
lines, the search item, condition and download link. Useful when writing
scripts.`,
		Example: `  cleanitol classify "BSC_Textures_Vol01.dat;https://example.org/tex"
  cleanitol classify "0x6534284a 0x1234abcd 0x00000001;SimTerra Pack;https://example.org/st"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			printRule(app.stdout, script.Parse(strings.Join(args, " ")))
			return nil
		},
	}
}

func printRule(w io.Writer, r script.Rule) {
	field := func(key, value string) {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render(key), value)
	}
	field("kind", SuccessStyle.Render(r.Kind.String()))
	field("text", r.Text)

	d := r.Dependency
	if d == nil {
		return
	}
	field("search item", d.SearchItem+itemKind(d.IsSearchItemTGI))
	if d.IsConditional() {
		field("condition", d.ConditionalItem+itemKind(d.IsConditionalItemTGI))
	}
	if d.SourceURL != "" {
		field("source", d.LinkText()+" "+SubtitleStyle.Render("<"+d.SourceURL+">"))
	}
	if d.Unchecked {
		field("unchecked", WarningStyle.Render("true (no package file or TGI to look for)"))
	}
}

func itemKind(isTGI bool) string {
	if isTGI {
		return SubtitleStyle.Render(" (TGI)")
	}
	return SubtitleStyle.Render(" (file)")
}
