package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/mitchellh/go-homedir"
	"github.com/turbot/pipe-fittings/error_helpers"
	"github.com/turbot/tailpipe-sales-etl/types"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

func ParseConfig[T any](configString []byte, filename string, startPos hcl.Pos, target *T) error {
	// parse the config
	file, diags := hclsyntax.ParseConfig(configString, filename, startPos)
	if diags.HasErrors() {
		slog.Error("ParseConfig: Failed to parse config into hcl file", "filename", filename, "diags", diags)
		return error_helpers.HclDiagsToError("failed to parse config", diags)
	}
	// create empty eval context
	evalCtx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: make(map[string]function.Function),
	}
	// decode the body into the target struct
	moreDiags := gohcl.DecodeBody(file.Body, evalCtx, target)
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		slog.Error("ParseConfig: Failed to decode config body", "filename", filename, "diags", diags)
		return error_helpers.HclDiagsToError("failed to parse config", diags)
	}
	return nil
}

// Parse decodes HCL run configuration, applies defaults and validates the result
func Parse(data []byte, filename string) (*Config, error) {
	c := &Config{}
	if err := ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1, Byte: 0}, c); err != nil {
		return nil, err
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s, %w", filename, err)
	}
	return c, nil
}

// LoadFile reads and parses an HCL config file. A path starting with ~ is expanded.
func LoadFile(path string) (*Config, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s, %w", path, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.NotFoundError{Path: p}
		}
		return nil, fmt.Errorf("failed to read config file %s, %w", p, err)
	}
	slog.Info("Loading config", "path", p)
	return Parse(data, p)
}
