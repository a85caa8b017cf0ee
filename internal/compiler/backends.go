package compiler

import "context"

// Tectonic drives the tectonic engine, which fetches missing packages itself.
type Tectonic struct {
	tool
}

// NewTectonic returns a tectonic backend passing extra flags through.
func NewTectonic(extra []string) *Tectonic {
	return &Tectonic{tool{name: "tectonic", extra: extra}}
}

// Args returns: -o <outDir> [extra...] <texPath>.
func (t *Tectonic) Args(texPath, outDir string) []string {
	args := []string{"-o", outDir}
	args = append(args, t.extra...)
	return append(args, texPath)
}

// Compile runs tectonic.
func (t *Tectonic) Compile(ctx context.Context, texPath, outDir string) error {
	return t.run(ctx, t.Args(texPath, outDir))
}

// Latexmk drives latexmk in PDF mode without interactive prompts.
type Latexmk struct {
	tool
}

// NewLatexmk returns a latexmk backend passing extra flags through.
func NewLatexmk(extra []string) *Latexmk {
	return &Latexmk{tool{name: "latexmk", extra: extra}}
}

// Args returns: -pdf -interaction=nonstopmode -outdir=<outDir> [extra...] <texPath>.
func (l *Latexmk) Args(texPath, outDir string) []string {
	args := []string{"-pdf", "-interaction=nonstopmode", "-outdir=" + outDir}
	args = append(args, l.extra...)
	return append(args, texPath)
}

// Compile runs latexmk.
func (l *Latexmk) Compile(ctx context.Context, texPath, outDir string) error {
	return l.run(ctx, l.Args(texPath, outDir))
}
