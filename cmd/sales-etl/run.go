package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/artifact_source"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/etl"
	"github.com/turbot/tailpipe-sales-etl/transform"
	"github.com/turbot/tailpipe-sales-etl/types"
)

func runCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process a local CSV file (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEtl(cmd, v)
		},
	}
}

// runEtl reads the input CSV, transforms it and writes parquet locally.
// A missing input file is reported and is not an error.
func runEtl(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Starting ETL Process...")

	source := artifact_source.NewFileSystemSource(cfg.InputPath, cfg.CsvOpts()...)
	if _, err := source.Stat(); err != nil {
		return notFoundOrError(out, err)
	}
	fmt.Fprintf(out, "Reading data from %s\n", cfg.InputPath)

	runner := etl.NewRunner(
		source,
		transform.NewPipeline(cfg.PipelineOptions()...),
		artifact_sink.NewFileSink(cfg.OutputPath),
	)
	res, err := runner.Run(cmd.Context())
	if err != nil {
		// the file may be removed between the check and the read
		return notFoundOrError(out, err)
	}

	fmt.Fprintln(out, "Preview Transformation...")
	res.Table.Preview(out, constants.DefaultPreviewRows)
	fmt.Fprintf(out, "Data saved to: %s\n", cfg.OutputPath)
	fmt.Fprintln(out, "ETL Job finished successfully!")
	return nil
}

// notFoundOrError reports a missing input file and swallows the error. Other errors are returned.
func notFoundOrError(out io.Writer, err error) error {
	var notFound *types.NotFoundError
	if !errors.As(err, &notFound) {
		return err
	}
	path, absErr := filepath.Abs(notFound.Path)
	if absErr != nil {
		path = notFound.Path
	}
	fmt.Fprintf(out, "Error: file %s not found\n", path)
	return nil
}
