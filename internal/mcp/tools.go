package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/vitae/internal/build"
	"github.com/gorewood/vitae/internal/compiler"
	"github.com/gorewood/vitae/internal/config"
	"github.com/gorewood/vitae/internal/data"
	"github.com/gorewood/vitae/internal/filter"
	"github.com/gorewood/vitae/internal/render"
)

// --- Render tool ---

// RenderInput is the input for the render tool.
type RenderInput struct {
	Template string `json:"template"       jsonschema:"template source"`
	Data     string `json:"data,omitempty" jsonschema:"YAML document whose root is a mapping"`
}

// RenderOutput is the output for the render tool.
type RenderOutput struct {
	Tex    string `json:"tex"    jsonschema:"rendered LaTeX"`
	Digest string `json:"digest" jsonschema:"BLAKE3 digest of the rendered LaTeX"`
}

func handleRender() mcp.ToolHandlerFor[RenderInput, RenderOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
		if input.Template == "" {
			return nil, RenderOutput{}, errors.New("template is required")
		}

		doc, err := data.Parse([]byte(input.Data))
		if err != nil {
			return nil, RenderOutput{}, err
		}

		tex, err := render.New(nil).Render("template", input.Template, doc)
		if err != nil {
			return nil, RenderOutput{}, err
		}
		return nil, RenderOutput{Tex: tex, Digest: render.Digest(tex)}, nil
	}
}

// --- Build tool ---

// BuildInput is the input for the build tool. Empty fields use the server's settings.
type BuildInput struct {
	Data       string `json:"data,omitempty"        jsonschema:"path to the YAML data file"`
	Template   string `json:"template,omitempty"    jsonschema:"path to the template file"`
	OutDir     string `json:"out_dir,omitempty"     jsonschema:"output directory, recreated on every build"`
	Name       string `json:"name,omitempty"        jsonschema:"output file stem"`
	Compiler   string `json:"compiler,omitempty"    jsonschema:"force a compiler: tectonic or latexmk"`
	RenderOnly bool   `json:"render_only,omitempty" jsonschema:"write the .tex file without compiling"`
}

// BuildOutput is the output for the build tool.
type BuildOutput struct {
	Result build.Result `json:"result"        jsonschema:"paths, compiler and digest of the build"`
	Log    []string     `json:"log,omitempty" jsonschema:"build progress lines"`
}

func handleBuild(base config.Settings) mcp.ToolHandlerFor[BuildInput, BuildOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildInput) (*mcp.CallToolResult, BuildOutput, error) {
		settings := overlay(base, input)
		opts, err := settings.BuildOptions()
		if err != nil {
			return nil, BuildOutput{}, err
		}

		var out BuildOutput
		opts.RenderOnly = input.RenderOnly
		opts.Progress = func(msg string) { out.Log = append(out.Log, msg) }

		result, err := build.Run(ctx, opts)
		if err != nil {
			var compileErr *compiler.CompileError
			if errors.As(err, &compileErr) && compileErr.Output() != "" {
				return nil, BuildOutput{}, fmt.Errorf("%w\n%s", err, compileErr.Output())
			}
			return nil, BuildOutput{}, err
		}
		out.Result = *result
		return nil, out, nil
	}
}

// overlay applies the non-empty fields of input on top of s.
func overlay(s config.Settings, input BuildInput) config.Settings {
	if input.Data != "" {
		s.DataPath = input.Data
	}
	if input.Template != "" {
		s.TemplatePath = input.Template
	}
	if input.OutDir != "" {
		s.OutDir = input.OutDir
	}
	if input.Name != "" {
		s.Name = input.Name
	}
	if input.Compiler != "" {
		s.Compiler = input.Compiler
	}
	return s
}

// --- Filter tool ---

// FilterInput is the input for the filter tool.
type FilterInput struct {
	Name string `json:"name"           jsonschema:"filter name"`
	Text string `json:"text,omitempty" jsonschema:"input text; empty is treated as absent"`
}

// FilterOutput is the output for the filter tool.
type FilterOutput struct {
	Result string `json:"result"           jsonschema:"filtered text"`
	Absent bool   `json:"absent,omitempty" jsonschema:"true when the filter returned no value"`
}

func handleFilter() mcp.ToolHandlerFor[FilterInput, FilterOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, FilterOutput, error) {
		arg := data.Null()
		if input.Text != "" {
			arg = data.String(input.Text)
		}

		got, err := filter.Default().Apply(input.Name, arg)
		if err != nil {
			return nil, FilterOutput{}, err
		}
		return nil, FilterOutput{Result: got.Text(), Absent: got.IsAbsent()}, nil
	}
}

// --- Compilers tool ---

// CompilersInput is the input for the compilers tool (no parameters needed).
type CompilersInput struct{}

// CompilerStatus describes one compiler backend.
type CompilerStatus struct {
	Name      string `json:"name"      jsonschema:"executable name"`
	Available bool   `json:"available" jsonschema:"found on PATH"`
	Selected  bool   `json:"selected"  jsonschema:"used by the next build"`
}

// CompilersOutput is the output for the compilers tool.
type CompilersOutput struct {
	Compilers []CompilerStatus `json:"compilers" jsonschema:"backends in preference order"`
}

func handleCompilers(base config.Settings) mcp.ToolHandlerFor[CompilersInput, CompilersOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CompilersInput) (*mcp.CallToolResult, CompilersOutput, error) {
		return nil, CompilersOutput{Compilers: compilerStatuses(base)}, nil
	}
}

// compilerStatuses reports every candidate. The forced compiler is selected
// when set; otherwise the first available one.
func compilerStatuses(s config.Settings) []CompilerStatus {
	candidates := compiler.Candidates(s.CompilerArgs)
	statuses := make([]CompilerStatus, 0, len(candidates))
	selected := false
	for _, b := range candidates {
		st := CompilerStatus{Name: b.Name(), Available: b.Available()}
		if s.Compiler != "" {
			st.Selected = b.Name() == s.Compiler
		} else if st.Available && !selected {
			st.Selected = true
			selected = true
		}
		statuses = append(statuses, st)
	}
	return statuses
}
