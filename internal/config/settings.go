package config

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/gorewood/vitae/internal/build"
	"github.com/gorewood/vitae/internal/compiler"
)

// Environment variables read by FromEnv.
const (
	EnvConfigHome   = "VITAE_CONFIG_HOME"
	EnvData         = "VITAE_DATA"
	EnvTemplate     = "VITAE_TEMPLATE"
	EnvOut          = "VITAE_OUT"
	EnvName         = "VITAE_NAME"
	EnvCompiler     = "VITAE_COMPILER"
	EnvCompilerArgs = "VITAE_COMPILER_ARGS"
)

// Settings are the user-tunable inputs of a build.
type Settings struct {
	DataPath     string
	TemplatePath string
	OutDir       string
	Name         string
	// Compiler forces a backend by executable name; empty means detect.
	Compiler     string
	CompilerArgs []string
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		DataPath:     build.DefaultDataPath,
		TemplatePath: build.DefaultTemplatePath,
		OutDir:       build.DefaultOutDir,
		Name:         build.DefaultName,
	}
}

// FromEnv overlays non-empty environment variables on s. getenv is usually os.Getenv.
func FromEnv(s Settings, getenv func(string) string) (Settings, error) {
	overlay := map[string]*string{
		EnvData:     &s.DataPath,
		EnvTemplate: &s.TemplatePath,
		EnvOut:      &s.OutDir,
		EnvName:     &s.Name,
		EnvCompiler: &s.Compiler,
	}
	for key, field := range overlay {
		if v := getenv(key); v != "" {
			*field = v
		}
	}

	if raw := getenv(EnvCompilerArgs); raw != "" {
		args, err := SplitArgs(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", EnvCompilerArgs, err)
		}
		s.CompilerArgs = args
	}
	return s, nil
}

// SplitArgs splits a command-line fragment using POSIX shell quoting rules.
func SplitArgs(raw string) ([]string, error) {
	args, err := shellquote.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("splitting compiler arguments: %w", err)
	}
	return args, nil
}

// BuildOptions converts s into build options, resolving a forced compiler.
func (s Settings) BuildOptions() (build.Options, error) {
	backend, err := s.Backend()
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		DataPath:     s.DataPath,
		TemplatePath: s.TemplatePath,
		OutDir:       s.OutDir,
		Name:         s.Name,
		Backend:      backend,
		CompilerArgs: s.CompilerArgs,
	}, nil
}

// Backend returns the forced compiler, or nil when the build should detect one.
func (s Settings) Backend() (compiler.Backend, error) {
	if s.Compiler == "" {
		return nil, nil //nolint:nilnil // nil backend means detect
	}
	return compiler.ByName(s.Compiler, s.CompilerArgs)
}
