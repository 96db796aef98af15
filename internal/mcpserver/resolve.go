// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes tvcharts' dataset operations as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/tvcharts/internal/dataset"
)

// PathInfo holds the resolved location of a dataset file.
type PathInfo struct {
	// AbsPath is the absolute, symlink-resolved file path.
	AbsPath string
	// Dir is the directory holding the file, where .tvcharts.yaml is looked up.
	Dir string
}

// ResolvePath resolves a dataset path to an absolute file path. It returns an
// error if the path does not exist, is a directory, or is not a .csv or
// .xlsx file.
func ResolvePath(path string) (*PathInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}
	if strings.ContainsRune(path, 0) {
		return nil, fmt.Errorf("invalid path %q", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory, not a dataset file", path)
	}
	if !dataset.Supported(absPath) {
		return nil, fmt.Errorf("unsupported dataset type %q (want .csv or .xlsx)", filepath.Ext(absPath))
	}

	return &PathInfo{
		AbsPath: absPath,
		Dir:     filepath.Dir(absPath),
	}, nil
}
