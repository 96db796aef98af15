package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/tvcharts/internal/config"
	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/output"
	"github.com/davetashner/tvcharts/internal/pipeline"
	"github.com/davetashner/tvcharts/internal/report"
	"github.com/davetashner/tvcharts/internal/tv"
	"github.com/davetashner/tvcharts/internal/validate"
)

// BuildInput is the input schema for the build_datasets MCP tool.
type BuildInput struct {
	Path        string  `json:"path" jsonschema:"Dataset file to chart (.csv or .xlsx)"`
	Aggregators string  `json:"aggregators,omitempty" jsonschema:"Comma-separated list of aggregators to run: brands, sizes, ranges (default: all)"`
	TopN        *int    `json:"top_n,omitempty" jsonschema:"Number of brands to keep in the brand selection (default 20)"`
	Order       string  `json:"order,omitempty" jsonschema:"Brand ranking: size or energy (default: size)"`
	Brands      string  `json:"brands,omitempty" jsonschema:"Only chart these brands (comma-separated, case-insensitive)"`
	MinScreen   float64 `json:"min_screen,omitempty" jsonschema:"Only chart models with a screen of at least this many inches"`
	MaxScreen   float64 `json:"max_screen,omitempty" jsonschema:"Only chart models with a screen of at most this many inches"`
	MaxEnergy   float64 `json:"max_energy,omitempty" jsonschema:"Only chart models using at most this many kWh/year"`
	Format      string  `json:"format,omitempty" jsonschema:"Output format: json, markdown, csv (default: json)"`
}

// ReportInput is the input schema for the report MCP tool.
type ReportInput struct {
	Path        string `json:"path" jsonschema:"Dataset file to chart (.csv or .xlsx)"`
	Aggregators string `json:"aggregators,omitempty" jsonschema:"Comma-separated list of aggregators to run (default: all)"`
	Sections    string `json:"sections,omitempty" jsonschema:"Comma-separated list of report sections to include"`
}

// ValidateInput is the input schema for the validate_dataset MCP tool.
type ValidateInput struct {
	Path string `json:"path" jsonschema:"Dataset file to check (.csv or .xlsx)"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all tvcharts tools to the MCP server.
func registerTools(server *mcp.Server) {
	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_datasets",
		Description: "Build chart datasets from a television energy dataset: the largest screen per brand, average energy by screen size, and model counts per screen-size range.",
		Annotations: readOnly,
	}, handleBuild)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report",
		Description: "Summarize a television energy dataset as a JSON report with row counts, aggregator status and rendered chart tables.",
		Annotations: readOnly,
	}, handleReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_dataset",
		Description: "Check a television energy dataset for missing columns, rows without a brand, and unusable numeric cells.",
		Annotations: readOnly,
	}, handleValidate)
}

func handleBuild(ctx context.Context, _ *mcp.CallToolRequest, input BuildInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}

	// Default to json for MCP consumers.
	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	cfg, err := buildConfig(pathInfo, &config.Config{
		TopN:        input.TopN,
		Order:       input.Order,
		Aggregators: splitAndTrim(input.Aggregators),
		Filter: config.FilterConfig{
			Brands:    splitAndTrim(input.Brands),
			MinScreen: input.MinScreen,
			MaxScreen: input.MaxScreen,
			MaxEnergy: input.MaxEnergy,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := run(ctx, pathInfo, cfg)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(result, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return textResult(buf.String()), nil, nil
}

func handleReport(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}

	sections := splitAndTrim(input.Sections)
	if unknown := report.UnknownSections(sections); len(unknown) > 0 {
		return nil, nil, fmt.Errorf("unknown sections: %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(report.List(), ", "))
	}

	cfg, err := buildConfig(pathInfo, &config.Config{Aggregators: splitAndTrim(input.Aggregators)})
	if err != nil {
		return nil, nil, err
	}

	result, err := run(ctx, pathInfo, cfg)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := report.RenderJSON(result, sections, &buf); err != nil {
		return nil, nil, fmt.Errorf("rendering failed: %w", err)
	}
	return textResult(buf.String()), nil, nil
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := buildConfig(pathInfo, nil)
	if err != nil {
		return nil, nil, err
	}

	rows, err := dataset.Load(pathInfo.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	res := validate.Validate(rows, dataset.DefaultColumns().Override(cfg.Columns))

	data, err := json.MarshalIndent(struct {
		Valid bool `json:"valid"`
		*validate.Result
	}{res.Valid(), res}, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("JSON marshal: %w", err)
	}
	return textResult(string(data)), nil, nil
}

// buildConfig layers overrides on top of the config file next to the dataset.
func buildConfig(pathInfo *PathInfo, overrides *config.Config) (tv.BuildConfig, error) {
	fileCfg, err := config.Load(pathInfo.Dir)
	if err != nil {
		return tv.BuildConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := config.Resolve(config.Merge(fileCfg, overrides))
	if err != nil {
		return tv.BuildConfig{}, err
	}
	cfg.Source = pathInfo.AbsPath
	return cfg, nil
}

func run(ctx context.Context, pathInfo *PathInfo, cfg tv.BuildConfig) (*tv.BuildResult, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	result, err := p.RunFile(ctx, pathInfo.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	return result, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace from each
// element. It returns nil when no element is left.
func splitAndTrim(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
