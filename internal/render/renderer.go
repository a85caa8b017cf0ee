// Package render fills LaTeX templates written with Jinja-style directives.
//
// Directives use LaTeX-friendly delimiters so templates stay valid TeX to an editor:
//
//	\VAR{basics.name|escape_latex}          variable, optionally piped through filters
//	\BLOCK{for job in work} ... \BLOCK{endfor}  control blocks (if, for, set, include)
//	\#{ note to self }                      comment, dropped from output
//
// A line holding nothing but a block directive is removed entirely, indentation
// and line break included.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikolalohinski/gonja/v2/builtins"
	"github.com/nikolalohinski/gonja/v2/config"
	"github.com/nikolalohinski/gonja/v2/exec"

	"github.com/gorewood/vitae/internal/data"
	"github.com/gorewood/vitae/internal/filter"
)

// Directive delimiters.
const (
	VariableStart = `\VAR{`
	VariableEnd   = `}`
	BlockStart    = `\BLOCK{`
	BlockEnd      = `}`
	CommentStart  = `\#{`
	CommentEnd    = `}`
)

// Renderer renders templates against a data mapping using its own filter set.
type Renderer struct {
	filters *filter.Registry
	env     *exec.Environment
}

// New returns a Renderer whose templates can call every filter in reg on top
// of the engine's builtin filters. A nil reg means filter.Default().
func New(reg *filter.Registry) *Renderer {
	if reg == nil {
		reg = filter.Default()
	}
	reg = reg.Clone()

	custom := make(map[string]exec.FilterFunction, reg.Len()+1)
	for _, name := range reg.Names() {
		fn, _ := reg.Lookup(name)
		custom[name] = wrapFilter(fn)
	}
	custom[parentFilter] = parentValue

	// Start from an empty set so the engine's shared builtin set is never modified.
	filters := exec.NewFilterSet(map[string]exec.FilterFunction{}).
		Update(builtins.Filters).
		Update(exec.NewFilterSet(custom))

	return &Renderer{
		filters: reg,
		env: &exec.Environment{
			Filters:           filters,
			Tests:             builtins.Tests,
			ControlStructures: builtins.ControlStructures,
			Methods:           builtins.Methods,
			Context:           builtins.GlobalFunctions,
		},
	}
}

// Filters returns the names of the document filters this renderer registered.
func (r *Renderer) Filters() []string {
	return r.filters.Names()
}

// Render executes source against ctx. name identifies the template in errors.
func (r *Renderer) Render(name, source string, ctx data.Value) (string, error) {
	return r.render(name, source, "", ctx)
}

// RenderFile reads the template at path and executes it against ctx.
// Templates it includes are resolved relative to its directory.
func (r *Renderer) RenderFile(path string, ctx data.Value) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return r.render(filepath.Base(path), string(raw), filepath.Dir(path), ctx)
}

// Check parses source without executing it.
func (r *Renderer) Check(name, source string) error {
	_, err := r.compile(name, source, "")
	return err
}

func (r *Renderer) render(name, source, dir string, ctx data.Value) (string, error) {
	root, err := data.Root(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	tmpl, err := r.compile(name, source, dir)
	if err != nil {
		return "", err
	}

	vars, ok := root.Interface().(map[string]any)
	if !ok {
		return "", fmt.Errorf("rendering %s: %w", name, data.ErrRootNotMapping)
	}
	out, err := tmpl.ExecuteToString(exec.NewContext(vars))
	if err != nil {
		return "", &TemplateError{Template: name, Err: err}
	}
	return out, nil
}

func (r *Renderer) compile(name, source, dir string) (*exec.Template, error) {
	prepared, err := prepare(source)
	if err != nil {
		return nil, &TemplateError{Template: name, Err: err}
	}
	loader := &sourceLoader{name: name, source: prepared, dir: dir}
	tmpl, err := exec.NewTemplate(name, newConfig(), loader, r.env)
	if err != nil {
		return nil, &TemplateError{Template: name, Err: err}
	}
	return tmpl, nil
}

// newConfig lexes the prepared source. Whole-line block handling is done by
// prepare, so the engine's own trimming stays off.
func newConfig() *config.Config {
	return &config.Config{
		BlockStartString:    BlockStart,
		BlockEndString:      blockEnd,
		VariableStartString: VariableStart,
		VariableEndString:   variableEnd,
		CommentStartString:  CommentStart,
		CommentEndString:    commentEnd,
		AutoEscape:          false,
		StrictUndefined:     false,
		TrimBlocks:          false,
		LeftStripBlocks:     false,
	}
}

// wrapFilter adapts a filter.Func to the engine's filter signature.
// Filter arguments are ignored; document filters take none.
func wrapFilter(fn filter.Func) exec.FilterFunction {
	return func(_ *exec.Evaluator, in *exec.Value, _ *exec.VarArgs) *exec.Value {
		arg := data.Null()
		if in != nil && !in.IsNil() {
			arg = data.FromAny(in.Interface())
		}
		return exec.AsValue(fn(arg).Interface())
	}
}
