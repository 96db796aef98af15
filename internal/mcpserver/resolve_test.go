// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_ValidFile(t *testing.T) {
	dir := t.TempDir()
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	path := writeTestFile(t, dir, "tv.csv", sampleCSV)

	info, err := ResolvePath(path)
	require.NoError(t, err)
	assert.Equal(t, path, info.AbsPath)
	assert.Equal(t, dir, info.Dir)
}

func TestResolvePath_Empty(t *testing.T) {
	_, err := ResolvePath("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestResolvePath_NonexistentPath(t *testing.T) {
	_, err := ResolvePath("/nonexistent/path/that/does/not/exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestResolvePath_Directory(t *testing.T) {
	_, err := ResolvePath(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestResolvePath_UnsupportedExtension(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "notes.txt", "hello")
	_, err := ResolvePath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset type")
}

func TestResolvePath_NullByte(t *testing.T) {
	_, err := ResolvePath("tv\x00.csv")
	require.Error(t, err, "paths with null bytes must be rejected")
}

func TestResolvePath_SymlinkResolved(t *testing.T) {
	realDir := t.TempDir()
	realDir, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)
	target := writeTestFile(t, realDir, "tv.csv", sampleCSV)

	link := filepath.Join(t.TempDir(), "linked.csv")
	require.NoError(t, os.Symlink(target, link))

	info, err := ResolvePath(link)
	require.NoError(t, err)
	assert.Equal(t, target, info.AbsPath, "should resolve symlink to real path")
	assert.Equal(t, realDir, info.Dir)
}

func TestResolvePath_SystemFilesRejected(t *testing.T) {
	for _, p := range []string{"/etc/passwd", "/etc/shadow", "../../../etc"} {
		_, err := ResolvePath(p)
		assert.Error(t, err, p)
	}
}
