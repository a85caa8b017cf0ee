// Package main provides the entry point for the vitae CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/config"
	"github.com/gorewood/vitae/internal/envfile"
	"github.com/gorewood/vitae/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// colorMode parses the --color persistent flag.
func colorMode(cmd *cobra.Command) (output.ColorMode, error) {
	var raw string
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		raw = flag.Value.String()
	}
	return output.ParseColorMode(raw)
}

// useColor resolves the --color persistent flag against the command's stdout.
// An invalid value was already rejected before the command ran.
func useColor(cmd *cobra.Command) bool {
	mode, _ := colorMode(cmd)
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter returns a printer on the command's stdout with errors and
// progress on its stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the vitae CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitae",
		Short: "Typeset a CV from YAML and a LaTeX template",
		Long: `Vitae - Typeset a CV from a YAML data file and a LaTeX template.

A build:
  - Loads the data file (cv.yaml)
  - Fills the template (template.tex.j2) using \VAR{}, \BLOCK{} and \#{} directives
  - Writes out/cv.tex, replacing the output directory
  - Compiles it to out/cv.pdf with tectonic, or latexmk when tectonic is missing

Settings come from flags, then VITAE_* environment variables, then .env.local,
.env and the global env file in the vitae config directory.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewError("no command specified. Run 'vitae --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if _, err := colorMode(cmd); err != nil {
			return output.NewErrorWithCause(fmt.Sprintf("invalid --color value: %v", err), err)
		}
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always or never")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; variables already in the environment are never replaced.
//
// Resolution order:
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. <config dir>/env (global fallback)
func loadEnvFiles() {
	_ = envfile.LoadAll(config.EnvFiles()...)
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tools:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newBuildCmd(), "core")
	addGroupedCommand(cmd, newRenderCmd(), "core")
	addGroupedCommand(cmd, newInitCmd(), "core")

	addGroupedCommand(cmd, newDoctorCmd(), "tools")
	addGroupedCommand(cmd, newFilterCmd(), "tools")

	addGroupedCommand(cmd, newServeCmd(), "agent")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
