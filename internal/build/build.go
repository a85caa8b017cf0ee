// Package build runs one document build: load data, render the template,
// write the .tex file and compile it.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorewood/vitae/internal/compiler"
	"github.com/gorewood/vitae/internal/data"
	"github.com/gorewood/vitae/internal/filter"
	"github.com/gorewood/vitae/internal/render"
)

var (
	// ErrMissingInput is returned when the data file does not exist.
	ErrMissingInput = errors.New("data file not found")
	// ErrMissingTemplate is returned when the template file does not exist.
	ErrMissingTemplate = errors.New("template file not found")
)

// Options configures a build. Zero fields fall back to the defaults below.
type Options struct {
	DataPath     string
	TemplatePath string
	OutDir       string
	// Name is the output file stem: <OutDir>/<Name>.tex and .pdf.
	Name string
	// Filters available to the template; filter.Default() when nil.
	Filters *filter.Registry
	// Backend forces a compiler. When nil the first available candidate is used.
	Backend compiler.Backend
	// CompilerArgs are passed to the detected backend. Ignored when Backend is set.
	CompilerArgs []string
	// RenderOnly stops after writing the .tex file.
	RenderOnly bool
	// Progress, when set, receives one line per build stage.
	Progress func(msg string)
}

// Defaults.
const (
	DefaultDataPath     = "cv.yaml"
	DefaultTemplatePath = "template.tex.j2"
	DefaultOutDir       = "out"
	DefaultName         = "cv"
)

// Result describes a finished build.
type Result struct {
	TexPath  string `json:"tex_path"`
	PDFPath  string `json:"pdf_path,omitempty"`
	Compiler string `json:"compiler,omitempty"`
	// Digest is the BLAKE3 sum of the rendered .tex.
	Digest  string `json:"digest"`
	PDFSize int64  `json:"pdf_size,omitempty"`
}

func (o *Options) applyDefaults() {
	if o.DataPath == "" {
		o.DataPath = DefaultDataPath
	}
	if o.TemplatePath == "" {
		o.TemplatePath = DefaultTemplatePath
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
}

func (o *Options) progress(format string, args ...any) {
	if o.Progress != nil {
		o.Progress(fmt.Sprintf(format, args...))
	}
}

// Run performs the build. The output directory is recreated empty before
// anything else, so a failed run leaves at most a fresh directory behind.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.applyDefaults()

	if err := PrepareOutDir(opts.OutDir); err != nil {
		return nil, err
	}
	if err := requireFile(opts.DataPath, ErrMissingInput); err != nil {
		return nil, err
	}
	if err := requireFile(opts.TemplatePath, ErrMissingTemplate); err != nil {
		return nil, err
	}

	opts.progress("Loading data from %s...", opts.DataPath)
	doc, err := data.Load(opts.DataPath)
	if err != nil {
		return nil, err
	}

	opts.progress("Rendering template %s...", opts.TemplatePath)
	text, err := render.New(opts.Filters).RenderFile(opts.TemplatePath, doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TexPath: filepath.Join(opts.OutDir, opts.Name+".tex"),
		Digest:  render.Digest(text),
	}
	if err := render.WriteFile(result.TexPath, text); err != nil {
		return nil, err
	}
	if opts.RenderOnly {
		return result, nil
	}

	backend := opts.Backend
	if backend == nil {
		if backend, err = compiler.Select(compiler.Candidates(opts.CompilerArgs)...); err != nil {
			return nil, err
		}
	}

	opts.progress("Compiling PDF with %s...", backend.Name())
	if err := backend.Compile(ctx, result.TexPath, opts.OutDir); err != nil {
		return nil, err
	}

	result.Compiler = backend.Name()
	result.PDFPath = filepath.Join(opts.OutDir, opts.Name+".pdf")
	if info, statErr := os.Stat(result.PDFPath); statErr == nil {
		result.PDFSize = info.Size()
	}
	return result, nil
}

// PrepareOutDir removes dir and everything in it, then recreates it empty.
func PrepareOutDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output is meant to be shared
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}

// requireFile returns kind wrapped with path when path does not exist.
func requireFile(path string, kind error) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", kind, path)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", kind, path)
	}
	return nil
}
