package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/tvcharts/internal/config"
)

// Config command flags.
var (
	configGlobal bool
	configTOML   bool
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify tvcharts configuration",
	Long: `View and modify tvcharts configuration.

tvcharts reads configuration from .tvcharts.yaml (or .tvcharts.toml) in the
current directory. A global config at ~/.config/tvcharts/config.yaml provides
defaults. Local settings override global settings.

Note: config set does a YAML round-trip and will not preserve comments.
If you need to keep comments, edit the file directly.`,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  tvcharts config get top_n
  tvcharts config get filter.min_screen
  tvcharts config get columns
  tvcharts config get --global output_format`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string. List keys
(aggregators, filter.brands) take a comma-separated value.
By default, writes to .tvcharts.yaml in the current directory.
Use --global to write to ~/.config/tvcharts/config.yaml.

Note: This does a YAML round-trip and will not preserve comments.

Examples:
  tvcharts config set top_n 10
  tvcharts config set order energy
  tvcharts config set filter.brands Samsung,LG
  tvcharts config set columns.brand Make
  tvcharts config set --global output_format markdown`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all configuration values with their source annotation.

Shows every set configuration value, annotated with whether it comes
from the local config (.tvcharts.yaml) or global config
(~/.config/tvcharts/config.yaml). Local values override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration that build, report and serve would use, after
merging the global config, the local config and TVCHARTS_* environment
variables. Flags are not included.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/tvcharts/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/tvcharts/config.yaml)")
	configShowCmd.Flags().BoolVar(&configTOML, "toml", false, "print as TOML instead of YAML")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if configGlobal {
		globalCfg, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cfg = globalCfg
	} else {
		globalCfg, localCfg, err := loadConfigLayers()
		if err != nil {
			return err
		}
		cfg = config.Merge(globalCfg, localCfg)
	}

	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	targetPath := filepath.Join(".", config.FileName)
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip so a bad value never reaches disk.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, localCfg, err := loadConfigLayers()
	if err != nil {
		return err
	}
	globalMap, err := configToFlatMap(globalCfg)
	if err != nil {
		return err
	}
	localMap, err := configToFlatMap(localCfg)
	if err != nil {
		return err
	}

	type entry struct {
		value  any
		source string
	}
	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{value: v, source: "global"}
	}
	for k, v := range localMap {
		seen[k] = entry{value: v, source: "local"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'tvcharts config set <key> <value>' to set values.")
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	localColor := color.New(color.FgGreen)
	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, formatSource(e.source, globalColor, localColor))
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	globalCfg, localCfg, err := loadConfigLayers()
	if err != nil {
		return err
	}
	envCfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return err
	}

	merged := config.Merge(globalCfg, localCfg, envCfg)
	if err := config.Validate(merged); err != nil {
		return err
	}
	if configTOML {
		return config.WriteTOML(cmd.OutOrStdout(), merged)
	}
	return config.Write(cmd.OutOrStdout(), merged)
}

// loadConfigLayers loads the global and local config files.
func loadConfigLayers() (globalCfg, localCfg *config.Config, err error) {
	globalCfg, err = config.LoadGlobal()
	if err != nil {
		return nil, nil, fmt.Errorf("loading global config: %w", err)
	}
	localCfg, err = config.Load(".")
	if err != nil {
		return nil, nil, fmt.Errorf("loading local config: %w", err)
	}
	return globalCfg, localCfg, nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// configToFlatMap converts a Config to a flat dot-notation map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	m, err := config.ToMap(cfg)
	if err != nil {
		return nil, err
	}
	return config.FlattenMap(m, ""), nil
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, localColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprintf("(global)")
	case "local":
		return localColor.Sprintf("(local)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
