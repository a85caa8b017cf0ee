// Package mcp provides a Model Context Protocol server for vitae.
// It exposes rendering, building and the document filters as MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/vitae/internal/config"
)

// NewServer creates an MCP server with all vitae tools registered.
// base supplies the paths and compiler used when a tool call leaves them out.
func NewServer(version string, base config.Settings) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "vitae",
		Version: version,
	}, nil)
	registerTools(server, base)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// buildAnnotations returns annotations for the build tool, which replaces the output directory.
func buildAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, base config.Settings) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render",
		Description: "Render a LaTeX template (\\VAR{}, \\BLOCK{}, \\#{} directives) against YAML data and return the .tex text. Nothing is written to disk.",
		Annotations: readOnlyAnnotations(),
	}, handleRender())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build",
		Description: "Build the document: load the YAML data file, render the template into the output directory and compile it to PDF. The output directory is recreated on every build.",
		Annotations: buildAnnotations(),
	}, handleBuild(base))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter",
		Description: "Apply a document filter (normalize_url, url_display, escape_latex, latex_braces) to text.",
		Annotations: readOnlyAnnotations(),
	}, handleFilter())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compilers",
		Description: "List the LaTeX compilers vitae knows, in preference order, and whether each is installed.",
		Annotations: readOnlyAnnotations(),
	}, handleCompilers(base))
}
