package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/scaffold"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter cv.yaml and template.tex.j2",
		Long: `Create a starter data file and template in dir (default: current directory).

Nothing is written if either file already exists, unless --force is given.

Examples:
  vitae init              # Write ./cv.yaml and ./template.tex.j2
  vitae init resume       # Write into ./resume/
  vitae init --force      # Overwrite existing files`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, dir string, force bool) error {
	printer := newPrinter(cmd)

	written, err := scaffold.Write(dir, force)
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"created": written})
	}
	for _, path := range written {
		printer.Print("Created %s\n", path)
	}
	printer.Println()
	printer.Println("Next: edit cv.yaml, then run 'vitae build'.")
	return nil
}
