package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/vitae/internal/config"
)

// settingsFlags holds the flags shared by commands that read a data file and template.
type settingsFlags struct {
	data         string
	template     string
	out          string
	name         string
	compiler     string
	compilerArgs string
}

// addSettingsFlags registers the shared path flags, plus the compiler flags
// when withCompiler is set.
func addSettingsFlags(cmd *cobra.Command, flags *settingsFlags, withCompiler bool) {
	defaults := config.Defaults()
	cmd.Flags().StringVarP(&flags.data, "data", "d", defaults.DataPath, "YAML data file ($"+config.EnvData+")")
	cmd.Flags().StringVarP(&flags.template, "template", "t", defaults.TemplatePath, "Template file ($"+config.EnvTemplate+")")
	cmd.Flags().StringVarP(&flags.out, "out", "o", defaults.OutDir, "Output directory, replaced on every run ($"+config.EnvOut+")")
	cmd.Flags().StringVarP(&flags.name, "name", "n", defaults.Name, "Output file stem ($"+config.EnvName+")")
	if withCompiler {
		cmd.Flags().StringVarP(&flags.compiler, "compiler", "c", "", "Force a compiler: tectonic or latexmk ($"+config.EnvCompiler+")")
		cmd.Flags().StringVar(&flags.compilerArgs, "compiler-args", "", "Extra compiler arguments, shell-quoted ($"+config.EnvCompilerArgs+")")
	}
}

// resolveSettings layers defaults, the environment and explicitly set flags.
func resolveSettings(cmd *cobra.Command, flags *settingsFlags) (config.Settings, error) {
	s, err := config.FromEnv(config.Defaults(), os.Getenv)
	if err != nil {
		return s, err
	}

	changed := cmd.Flags().Changed
	if changed("data") {
		s.DataPath = flags.data
	}
	if changed("template") {
		s.TemplatePath = flags.template
	}
	if changed("out") {
		s.OutDir = flags.out
	}
	if changed("name") {
		s.Name = flags.name
	}
	if changed("compiler") {
		s.Compiler = flags.compiler
	}
	if changed("compiler-args") {
		args, err := config.SplitArgs(flags.compilerArgs)
		if err != nil {
			return s, err
		}
		s.CompilerArgs = args
	}
	return s, nil
}
