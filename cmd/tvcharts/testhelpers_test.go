// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tvcharts/internal/config"
)

const sampleCSV = `Submit_ID,Brand_Reg,Model_No,Family Name,screensize,Labelled energy consumption (kWh/year)
1,Samsung,QA32,Q,32,60
2,Samsung,QA65,Q,65,210
3,LG,OLED55,C,54.6,180
4,,NOBRAND,X,40,100
5,Sony,KD85,X,85,400
6,TCL,50P,P,50.2,n/a
`

// resetFlags resets every command's flags and bound variables so tests do
// not leak state through the package-level cobra commands.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Changed = false
			_ = f.Value.Set(f.DefValue)
		})
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	})

	// Reset slices AFTER VisitAll; StringSlice.Set("[]") appends a literal
	// "[]" entry rather than clearing.
	buildOpts.brands = nil
	reportOpts.brands = nil
	serveOpts.brands = nil
}

// chdirTemp moves the test into a fresh directory with an isolated global
// config and no TVCHARTS_* environment. It returns the directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	for _, key := range []string{config.EnvTopN, config.EnvFormat, config.EnvOrder, config.EnvAggregators} {
		t.Setenv(key, "")
	}

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	resetFlags()
	return dir
}

// writeTestFile writes content to dir/name, creating parent directories.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// requireExitCode asserts that err is an exitCodeError with the given code.
func requireExitCode(t *testing.T, err error, code int) *exitCodeError {
	t.Helper()
	require.Error(t, err)
	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	require.Equal(t, code, ece.code, "message: %s", ece.msg)
	return ece
}
