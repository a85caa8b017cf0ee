// Package compiler runs an external TeX engine to turn a rendered document into a PDF.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoCompiler is returned by Select when no backend is installed.
var ErrNoCompiler = errors.New("no compiler found: install Tectonic (cargo install tectonic) " +
	"or TeX Live with latexmk (e.g. dnf install texlive-scheme-basic latexmk)")

// ErrUnknownCompiler is returned by ByName for names with no backend.
var ErrUnknownCompiler = errors.New("unknown compiler")

// Backend compiles a .tex file into outDir.
type Backend interface {
	// Name is the executable name looked up on PATH.
	Name() string
	// Available reports whether the executable can be found.
	Available() bool
	// Args returns the command-line arguments for compiling texPath into outDir.
	Args(texPath, outDir string) []string
	// Compile runs the executable and blocks until it exits.
	Compile(ctx context.Context, texPath, outDir string) error
}

// CompileError carries the captured output of a failed compiler run.
type CompileError struct {
	Backend  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s failed with exit code %d", e.Backend, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Output returns captured stdout followed by stderr, skipping empty streams.
func (e *CompileError) Output() string {
	var parts []string
	if s := strings.TrimRight(e.Stdout, "\n"); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimRight(e.Stderr, "\n"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// Candidates returns every backend in preference order. extra is appended to
// each backend's own flags, before the input file.
func Candidates(extra []string) []Backend {
	return []Backend{
		NewTectonic(extra),
		NewLatexmk(extra),
	}
}

// Select returns the first available backend.
func Select(backends ...Backend) (Backend, error) {
	for _, b := range backends {
		if b.Available() {
			return b, nil
		}
	}
	return nil, ErrNoCompiler
}

// ByName returns the backend with the given executable name.
func ByName(name string, extra []string) (Backend, error) {
	for _, b := range Candidates(extra) {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (want tectonic or latexmk)", ErrUnknownCompiler, name)
}

// tool holds what every backend shares: the executable and the exec plumbing.
type tool struct {
	name  string
	extra []string
}

func (t *tool) Name() string {
	return t.name
}

func (t *tool) Available() bool {
	_, err := exec.LookPath(t.name)
	return err == nil
}

// run executes the tool with args, capturing stdout and stderr.
func (t *tool) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, t.name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	compileErr := &CompileError{
		Backend: t.name,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Err:     err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		compileErr.ExitCode = exitErr.ExitCode()
	}
	return compileErr
}
