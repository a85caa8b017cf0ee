package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/data"
	"github.com/gorewood/vitae/internal/filter"
)

// filterSummaries describes the built-in filters for the listing.
var filterSummaries = map[string]string{
	filter.NameNormalizeURL: "prefix https:// unless the URL already has http:// or https://",
	filter.NameURLDisplay:   "strip a leading https:// or http://",
	filter.NameEscapeLaTeX:  `escape \ & % $ # ^ _ { } ~ for LaTeX`,
	filter.NameLaTeXBraces:  "wrap the text in { }",
}

// newFilterCmd creates the filter command.
func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [name] [text]",
		Short: "Apply a template filter to text",
		Long: `Apply one of the template filters to text and print the result.

Text is read from stdin when omitted; one trailing newline is dropped. With
no arguments the available filters are listed.

Examples:
  vitae filter escape_latex '50% & $5'          # 50\% \& \$5
  echo example.com | vitae filter normalize_url # https://example.com
  vitae filter --json url_display ''            # {"result": null, ...}`,
		Args: cobra.MaximumNArgs(2),
		RunE: runFilter,
	}
}

// runFilter executes the filter command.
func runFilter(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	reg := filter.Default()

	if len(args) == 0 {
		if printer.IsJSON() {
			return printer.WriteJSON(map[string]any{"filters": reg.Names()})
		}
		rows := make([][]string, 0, reg.Len())
		for _, name := range reg.Names() {
			rows = append(rows, []string{name, filterSummaries[name]})
		}
		printer.Table([]string{"NAME", "DESCRIPTION"}, rows)
		return nil
	}

	text, err := filterInput(cmd, args)
	if err != nil {
		return fail(printer, err)
	}

	arg := data.Null()
	if text != "" {
		arg = data.String(text)
	}
	got, err := reg.Apply(args[0], arg)
	if err != nil {
		return fail(printer, fmt.Errorf("%w (available: %s)", err, strings.Join(reg.Names(), ", ")))
	}

	if printer.IsJSON() {
		var result any
		if !got.IsAbsent() {
			result = got.Text()
		}
		return printer.WriteJSON(map[string]any{
			"filter": args[0],
			"input":  text,
			"result": result,
		})
	}
	printer.Println(got.Text())
	return nil
}

// filterInput returns the text argument, or stdin when it was omitted.
func filterInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSuffix(string(raw), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}
