// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/tvcharts/internal/config"
	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/tv"
)

// buildFlags holds the dataset-shaping flags shared by build, report and
// serve. Each command owns its own instance.
type buildFlags struct {
	aggregators string
	topN        int
	order       string
	brands      []string
	minScreen   float64
	maxScreen   float64
	maxEnergy   float64
}

// register adds the flags to fs.
func (f *buildFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.aggregators, "aggregators", "a", "", "comma-separated list of aggregators to run (brands, sizes, ranges)")
	fs.IntVar(&f.topN, "top-n", tv.DefaultTopN, "number of brands in the brand selection")
	fs.StringVar(&f.order, "order", "", "brand ranking: size or energy (default size)")
	fs.StringSliceVar(&f.brands, "brand", nil, "only chart these brands (repeatable or comma-separated)")
	fs.Float64Var(&f.minScreen, "min-screen", 0, "only chart models with a screen of at least this many inches (0 clears a configured bound)")
	fs.Float64Var(&f.maxScreen, "max-screen", 0, "only chart models with a screen of at most this many inches (0 clears a configured bound)")
	fs.Float64Var(&f.maxEnergy, "max-energy", 0, "only chart models using at most this many kWh/year (0 clears a configured bound)")
}

// overrides returns a config layer holding only the flags the user set.
func (f *buildFlags) overrides(cmd *cobra.Command) *config.Config {
	flags := cmd.Flags()
	cfg := &config.Config{}
	if flags.Changed("aggregators") {
		cfg.Aggregators = splitList(f.aggregators)
	}
	if flags.Changed("top-n") {
		cfg.TopN = config.IntPtr(f.topN)
	}
	if flags.Changed("order") {
		cfg.Order = strings.ToLower(strings.TrimSpace(f.order))
	}
	if flags.Changed("brand") {
		cfg.Filter.Brands = splitList(strings.Join(f.brands, ","))
	}
	if flags.Changed("min-screen") {
		cfg.Filter.MinScreen = config.FloatPtr(f.minScreen)
	}
	if flags.Changed("max-screen") {
		cfg.Filter.MaxScreen = config.FloatPtr(f.maxScreen)
	}
	if flags.Changed("max-energy") {
		cfg.Filter.MaxEnergy = config.FloatPtr(f.maxEnergy)
	}
	return cfg
}

// loadBuildConfig resolves the effective configuration for a dataset. Layers
// apply in order global file, ./.tvcharts.yaml, environment, then cli.
func loadBuildConfig(cli *config.Config) (tv.BuildConfig, error) {
	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return tv.BuildConfig{}, exitError(ExitInvalidArgs, "tvcharts: failed to load %s (%v)", config.GlobalConfigPath(), err)
	}
	fileCfg, err := config.Load(".")
	if err != nil {
		return tv.BuildConfig{}, exitError(ExitInvalidArgs, "tvcharts: failed to load %s (%v)", config.FileName, err)
	}
	envCfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return tv.BuildConfig{}, exitError(ExitInvalidArgs, "tvcharts: %v", err)
	}

	cfg, err := config.Resolve(config.Merge(globalCfg, fileCfg, envCfg, cli))
	if err != nil {
		return tv.BuildConfig{}, exitError(ExitInvalidArgs, "tvcharts: %v", err)
	}
	return cfg, nil
}

// resolveDataset checks the dataset argument and returns its absolute path.
func resolveDataset(path string) (string, error) {
	absPath, err := cmdFS.Abs(path)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "tvcharts: cannot resolve path %q (%v)", path, err)
	}
	info, err := cmdFS.Stat(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "tvcharts: dataset %q does not exist", path)
	}
	if info.IsDir() {
		return "", exitError(ExitInvalidArgs, "tvcharts: %q is a directory, not a dataset file", path)
	}
	if !dataset.Supported(absPath) {
		return "", exitError(ExitInvalidArgs, "tvcharts: unsupported dataset type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	return absPath, nil
}

// splitList splits a comma-separated list, trimming blanks. It returns nil
// when nothing is left.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
