// Package output provides structured output handling for the vitae CLI.
//
// Every command can print for a person or for a program: human output is
// styled with lipgloss when writing to a terminal, and --json switches to a
// single JSON document on stdout.
//
// # Printer
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout())).
//		WithStderr(cmd.ErrOrStderr())
//
//	printer.Progress("Rendering template template.tex.j2...") // stderr, human mode only
//	printer.Success(map[string]any{"message": "PDF generated: out/cv.pdf"})
//	printer.Error(err)
//
// # Exit Codes
//
//	output.ExitSuccess // 0
//	output.ExitFailure // 1: missing input or template, template error, no compiler, compile failure
//
// Errors carrying a code are built with NewError or NewErrorWithCause.
// WithDetail attaches diagnostic text such as a compiler's captured log,
// printed below the message (human) or as "detail" (JSON).
package output
