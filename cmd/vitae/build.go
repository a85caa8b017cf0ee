package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/build"
	"github.com/gorewood/vitae/internal/compiler"
	"github.com/gorewood/vitae/internal/output"
)

// newBuildCmd creates the build command.
func newBuildCmd() *cobra.Command {
	flags := &settingsFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the template and compile it to PDF",
		Long: `Render the template against the data file and compile the result to PDF.

The output directory is deleted and recreated first. The filled template is
written to <out>/<name>.tex, then compiled with the first compiler found on
PATH: tectonic, then latexmk. Use --compiler to force one.

Examples:
  vitae build                               # cv.yaml + template.tex.j2 -> out/cv.pdf
  vitae build -d resume.yaml -n resume      # out/resume.pdf
  vitae build --compiler latexmk --compiler-args "-xelatex"
  vitae build --json                        # Report paths, compiler and digest as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, flags, false)
		},
	}
	addSettingsFlags(cmd, flags, true)
	return cmd
}

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	flags := &settingsFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the template to a .tex file without compiling",
		Long: `Render the template against the data file and stop before compiling.

Useful for inspecting the generated LaTeX or building on a machine without
a TeX installation. The output directory is replaced as for build.

Examples:
  vitae render                 # Write out/cv.tex
  vitae render -o /tmp/cv      # Write /tmp/cv/cv.tex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, flags, true)
		},
	}
	addSettingsFlags(cmd, flags, false)
	return cmd
}

// runBuild executes build and render.
func runBuild(cmd *cobra.Command, flags *settingsFlags, renderOnly bool) error {
	printer := newPrinter(cmd)

	settings, err := resolveSettings(cmd, flags)
	if err != nil {
		return fail(printer, err)
	}
	opts, err := settings.BuildOptions()
	if err != nil {
		return fail(printer, err)
	}
	opts.RenderOnly = renderOnly
	opts.Progress = printer.Progress

	result, err := build.Run(cmd.Context(), opts)
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	if renderOnly {
		if err := printer.Success(map[string]any{"message": "LaTeX written: " + result.TexPath}); err != nil {
			return err
		}
		printer.KeyValue("Digest", result.Digest)
		return nil
	}

	if result.PDFSize == 0 {
		printer.Warn("%s exited cleanly but %s is missing or empty", result.Compiler, result.PDFPath)
	}
	if err := printer.Success(map[string]any{"message": pdfMessage(result)}); err != nil {
		return err
	}
	printer.KeyValue("Compiler", result.Compiler)
	printer.KeyValue("LaTeX", result.TexPath)
	return nil
}

// pdfMessage is the human success line for a compiled build.
func pdfMessage(result *build.Result) string {
	if result.PDFSize > 0 {
		return fmt.Sprintf("PDF generated: %s (%s)", result.PDFPath, humanize.Bytes(uint64(result.PDFSize)))
	}
	return "PDF generated: " + result.PDFPath
}

// fail reports err through printer and returns it as an ExitError.
func fail(printer *output.Printer, err error) error {
	exitErr := toExitError(err)
	printer.Error(exitErr)
	return exitErr
}

// toExitError maps build errors to a CLI failure. A compile failure carries
// the compiler's captured output as detail.
func toExitError(err error) *output.ExitError {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	out := output.NewErrorWithCause(err.Error(), err)
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		out.WithDetail(compileErr.Output())
	}
	return out
}
