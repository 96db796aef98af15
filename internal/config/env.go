// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvTopN        = "TVCHARTS_TOP_N"
	EnvFormat      = "TVCHARTS_FORMAT"
	EnvOrder       = "TVCHARTS_ORDER"
	EnvAggregators = "TVCHARTS_AGGREGATORS"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are left alone. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config layer from environment variables using lookup,
// typically os.LookupEnv. Empty values are treated as unset.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		OutputFormat: get(EnvFormat),
		Order:        get(EnvOrder),
	}

	if v := get(EnvTopN); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: not an integer: %q", EnvTopN, v)
		}
		cfg.TopN = &n
	}

	if v := get(EnvAggregators); v != "" {
		cfg.Aggregators = splitList(v)
	}
	return cfg, nil
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
