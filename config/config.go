package config

import (
	"errors"
	"fmt"
	"slices"

	typehelpers "github.com/turbot/go-kit/types"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/transform"
)

var storageTypes = []string{
	constants.StorageAwsS3Bucket,
	constants.StorageGcpStorageBucket,
	constants.StorageFileSystem,
}

// Config is the run configuration, read from an etl.hcl file:
//
//	input_path  = "../sales_data.csv"
//	output_path = "processed_data.parquet"
//	storage     = "aws_s3_bucket"
//
//	transform {
//	  threshold = 100
//	}
//
//	aws {
//	  profile = "etl"
//	}
type Config struct {
	InputPath  string `hcl:"input_path,optional"`
	OutputPath string `hcl:"output_path,optional"`
	Storage    string `hcl:"storage,optional"`

	Transform   *TransformConfig            `hcl:"transform,block"`
	Destination *DestinationConfig          `hcl:"destination,block"`
	Aws         *object_store.AwsConnection `hcl:"aws,block"`
	Gcp         *object_store.GcpConnection `hcl:"gcp,block"`
	FileSystem  *FileSystemConfig           `hcl:"file_system,block"`
}

// TransformConfig sets the pipeline options. snake_case_columns converts csv header names to
// snake_case; by default they are kept as written.
type TransformConfig struct {
	DateColumn       *string  `hcl:"date_column,optional"`
	ThresholdColumn  *string  `hcl:"threshold_column,optional"`
	Threshold        *float64 `hcl:"threshold,optional"`
	Inclusive        *bool    `hcl:"inclusive,optional"`
	StrictDates      *bool    `hcl:"strict_dates,optional"`
	SnakeCaseColumns *bool    `hcl:"snake_case_columns,optional"`
}

// DestinationConfig controls where event-triggered runs write their output.
// If key_template is set the template resolver is used, otherwise the replacement resolver.
type DestinationConfig struct {
	BucketFrom      *string `hcl:"bucket_from,optional"`
	BucketTo        *string `hcl:"bucket_to,optional"`
	SourceExtension *string `hcl:"source_extension,optional"`
	Extension       *string `hcl:"extension,optional"`
	BucketTemplate  *string `hcl:"bucket_template,optional"`
	KeyTemplate     *string `hcl:"key_template,optional"`
}

type FileSystemConfig struct {
	Root string `hcl:"root"`
}

// Default returns the configuration used when no config file is given
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.InputPath == "" {
		c.InputPath = constants.DefaultInputPath
	}
	if c.OutputPath == "" {
		c.OutputPath = constants.DefaultOutputPath
	}
	if c.Storage == "" {
		c.Storage = constants.StorageAwsS3Bucket
	}
	if c.Transform == nil {
		c.Transform = &TransformConfig{}
	}
	if c.Destination == nil {
		c.Destination = &DestinationConfig{}
	}
	if c.Aws == nil {
		c.Aws = &object_store.AwsConnection{}
	}
	if c.Gcp == nil {
		c.Gcp = &object_store.GcpConnection{}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(storageTypes, c.Storage) {
		errs = append(errs, fmt.Errorf("storage must be one of %v, got '%s'", storageTypes, c.Storage))
	}
	if c.Storage == constants.StorageFileSystem && (c.FileSystem == nil || c.FileSystem.Root == "") {
		errs = append(errs, fmt.Errorf("storage '%s' requires a file_system block with a root", c.Storage))
	}
	if c.Transform != nil {
		if c.Transform.ThresholdColumn != nil && *c.Transform.ThresholdColumn == "" {
			errs = append(errs, fmt.Errorf("threshold_column must not be empty"))
		}
		if c.Transform.DateColumn != nil && *c.Transform.DateColumn == "" {
			errs = append(errs, fmt.Errorf("date_column must not be empty"))
		}
	}
	if c.Aws != nil {
		if err := c.Aws.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("aws: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PipelineOptions converts the transform block to pipeline options
func (c *Config) PipelineOptions() []transform.PipelineOption {
	if c.Transform == nil {
		return nil
	}
	defaults := transform.DefaultOptions()
	t := c.Transform
	opts := []transform.PipelineOption{
		transform.WithThreshold(
			valueOrDefault(t.ThresholdColumn, defaults.ThresholdColumn),
			valueOrDefault(t.Threshold, defaults.Threshold),
			valueOrDefault(t.Inclusive, defaults.Inclusive),
		),
	}
	if t.DateColumn != nil {
		opts = append(opts, transform.WithDateColumn(*t.DateColumn))
	}
	if t.StrictDates != nil {
		opts = append(opts, transform.WithStrictDates(*t.StrictDates))
	}
	return opts
}

// CsvOpts converts the transform block to csv loader options
func (c *Config) CsvOpts() []table.CsvOpts {
	if c.Transform == nil || !valueOrDefault(c.Transform.SnakeCaseColumns, false) {
		return nil
	}
	return []table.CsvOpts{table.WithSnakeCaseColumnNames()}
}

// Resolver builds the destination resolver for event-triggered runs
func (c *Config) Resolver() (artifact_sink.DestinationResolver, error) {
	d := c.Destination
	if d == nil {
		return artifact_sink.RawToCleanResolver(), nil
	}
	if d.KeyTemplate != nil {
		return artifact_sink.NewTemplateResolver(typehelpers.SafeString(d.BucketTemplate), *d.KeyTemplate)
	}
	if d.BucketTemplate != nil {
		return nil, fmt.Errorf("bucket_template requires key_template")
	}
	defaults := artifact_sink.DefaultResolverOptions()
	return artifact_sink.NewResolver(artifact_sink.ResolverOptions{
		BucketFrom:      valueOrDefault(d.BucketFrom, defaults.BucketFrom),
		BucketTo:        valueOrDefault(d.BucketTo, defaults.BucketTo),
		SourceExtension: valueOrDefault(d.SourceExtension, defaults.SourceExtension),
		Extension:       valueOrDefault(d.Extension, defaults.Extension),
	}), nil
}

// StoreConfig returns the object store configuration. A non-empty root overrides the file_system block
// and selects the file system store.
func (c *Config) StoreConfig(root string) object_store.StoreConfig {
	res := object_store.StoreConfig{
		Type: c.Storage,
		Aws:  c.Aws,
		Gcp:  c.Gcp,
	}
	if c.FileSystem != nil {
		res.Root = c.FileSystem.Root
	}
	if root != "" {
		res.Type = constants.StorageFileSystem
		res.Root = root
	}
	return res
}

func valueOrDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
