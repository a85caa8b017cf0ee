package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/compiler"
	"github.com/gorewood/vitae/internal/config"
	"github.com/gorewood/vitae/internal/data"
	"github.com/gorewood/vitae/internal/output"
	"github.com/gorewood/vitae/internal/render"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version   string         `json:"version"`
	Inputs    []checkResult  `json:"inputs"`
	Compilers []checkResult  `json:"compilers"`
	Summary   *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	flags := &settingsFlags{}
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check inputs and compilers before a build",
		Long: `Check that a build can succeed, without writing anything.

INPUTS     - the data file loads and its root is a mapping; the template parses
COMPILERS  - which of tectonic and latexmk are on PATH, and which a build would use

Examples:
  vitae doctor            # Run all checks
  vitae doctor --quiet    # Only show failures and warnings
  vitae doctor --json     # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags, quiet)
		},
	}
	addSettingsFlags(cmd, flags, true)
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only show failures and warnings")
	return cmd
}

// runDoctor executes the doctor command.
func runDoctor(cmd *cobra.Command, flags *settingsFlags, quiet bool) error {
	printer := newPrinter(cmd)

	settings, err := resolveSettings(cmd, flags)
	if err != nil {
		return fail(printer, err)
	}

	result := gatherDoctorChecks(settings)
	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	outputDoctorHuman(printer, result, quiet)
	return nil
}

// gatherDoctorChecks runs all health checks and returns results.
func gatherDoctorChecks(s config.Settings) *doctorResult {
	result := &doctorResult{
		Version:   version,
		Inputs:    []checkResult{checkDataFile(s.DataPath), checkTemplateFile(s.TemplatePath)},
		Compilers: checkCompilers(s),
		Summary:   &doctorSummary{},
	}

	for _, check := range append(append([]checkResult{}, result.Inputs...), result.Compilers...) {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}
	return result
}

func checkDataFile(path string) checkResult {
	check := checkResult{Name: "data"}
	doc, err := data.Load(path)
	if err == nil {
		_, err = data.Root(doc)
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		check.Status = checkFail
		check.Message = path + " not found"
		check.Hint = "Run 'vitae init' to create a starter cv.yaml"
	case err != nil:
		check.Status = checkFail
		check.Message = err.Error()
	default:
		check.Status = checkPass
		check.Message = fmt.Sprintf("%s (%d top-level keys)", path, doc.Len())
	}
	return check
}

func checkTemplateFile(path string) checkResult {
	check := checkResult{Name: "template"}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		check.Status = checkFail
		check.Message = path + " not found"
		check.Hint = "Run 'vitae init' to create a starter template.tex.j2"
		return check
	}
	if err != nil {
		check.Status = checkFail
		check.Message = err.Error()
		return check
	}

	if err := render.New(nil).Check(path, string(raw)); err != nil {
		check.Status = checkFail
		check.Message = err.Error()
		return check
	}
	check.Status = checkPass
	check.Message = path + " parses"
	return check
}

// checkCompilers reports each backend. A missing backend is a warning; no
// usable backend at all is a failure.
func checkCompilers(s config.Settings) []checkResult {
	forced, err := s.Backend()
	if err != nil {
		return []checkResult{{Name: "compiler", Status: checkFail, Message: err.Error()}}
	}

	var checks []checkResult
	selected := ""
	for _, b := range compiler.Candidates(s.CompilerArgs) {
		check := checkResult{Name: b.Name()}
		if b.Available() {
			check.Status = checkPass
			check.Message = "found on PATH"
			if selected == "" && (forced == nil || forced.Name() == b.Name()) {
				selected = b.Name()
				check.Message += ", used for builds"
			}
		} else {
			check.Status = checkWarn
			check.Message = "not found on PATH"
		}
		checks = append(checks, check)
	}

	if selected == "" {
		check := checkResult{Name: "compiler", Status: checkFail, Message: compiler.ErrNoCompiler.Error()}
		if forced != nil {
			check.Message = forced.Name() + " was requested but is not on PATH"
		}
		checks = append(checks, check)
	}
	return checks
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("vitae doctor v%s\n", result.Version)

	printCheckSection(printer, "INPUTS", result.Inputs, quiet)
	printCheckSection(printer, "COMPILERS", result.Compilers, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet {
		hasNonPass := false
		for _, check := range checks {
			if check.Status != checkPass {
				hasNonPass = true
				break
			}
		}
		if !hasNonPass {
			return
		}
	}

	printer.Section(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}
		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     -> %s\n", check.Hint)
		}
	}
}

// statusIcon returns the icon for a check status.
func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}
