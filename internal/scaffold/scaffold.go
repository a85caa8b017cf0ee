// Package scaffold writes a starter data file and template for a new document.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/gorewood/vitae/internal/build"
)

//go:embed starter/*
var starterFS embed.FS

// ErrExists is returned when a starter file is already present and force is off.
var ErrExists = errors.New("file already exists")

// File is one starter file.
type File struct {
	// Name is the file name written into the target directory.
	Name    string
	Content string
}

// starterNames maps embedded files to the names vitae looks for by default.
var starterNames = map[string]string{
	"starter/cv.yaml":         build.DefaultDataPath,
	"starter/template.tex.j2": build.DefaultTemplatePath,
}

// Files returns the embedded starter files.
func Files() ([]File, error) {
	entries, err := fs.ReadDir(starterFS, "starter")
	if err != nil {
		return nil, fmt.Errorf("reading starter files: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := "starter/" + entry.Name()
		raw, err := starterFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading starter file %s: %w", path, err)
		}
		name, ok := starterNames[path]
		if !ok {
			name = entry.Name()
		}
		files = append(files, File{Name: name, Content: string(raw)})
	}
	return files, nil
}

// Write places the starter files in dir and returns the paths written.
// Without force nothing is written when any target already exists.
func Write(dir string, force bool) ([]string, error) {
	files, err := Files()
	if err != nil {
		return nil, err
	}

	if !force {
		for _, f := range files {
			path := filepath.Join(dir, f.Name)
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrExists)
			}
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := atomic.WriteFile(path, bytes.NewReader([]byte(f.Content))); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
