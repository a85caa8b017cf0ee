package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikolalohinski/gonja/v2/loaders"
)

// sourceLoader serves the template being rendered from memory and any
// template it includes from dir. Included files are prepared the same way as
// the template itself.
type sourceLoader struct {
	name   string
	source string
	dir    string
}

func (l *sourceLoader) Read(path string) (io.Reader, error) {
	if path == l.name {
		return strings.NewReader(l.source), nil
	}
	if l.dir == "" {
		return nil, fmt.Errorf("template %q not found", path)
	}
	raw, err := os.ReadFile(filepath.Join(l.dir, path))
	if err != nil {
		return nil, fmt.Errorf("reading included template: %w", err)
	}
	prepared, err := prepare(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return strings.NewReader(prepared), nil
}

func (l *sourceLoader) Resolve(path string) (string, error) {
	return path, nil
}

func (l *sourceLoader) Inherit(_ string) (loaders.Loader, error) {
	return l, nil
}
