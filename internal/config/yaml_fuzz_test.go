package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func FuzzConfigParse(f *testing.F) {
	f.Add([]byte("output_format: json\ntop_n: 5\n"))
	f.Add([]byte(""))
	f.Add([]byte("---"))
	f.Add([]byte("ranges:\n  - label: a\n    min: 0\n    max: 1\n"))
	f.Add([]byte("{invalid"))

	f.Fuzz(func(t *testing.T, data []byte) {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return
		}
		// Validation must never panic on any decodable config.
		_ = Validate(&cfg)
		yaml.Marshal(&cfg) //nolint:errcheck,gosec // fuzz: testing crash-freedom
	})
}
