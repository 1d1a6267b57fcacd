package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/go-kit/helpers"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/logging"
)

const (
	flagConfig    = "config"
	flagInput     = "input"
	flagOutput    = "output"
	flagThreshold = "threshold"
	flagInclusive = "inclusive"
	flagStorage   = "storage"
	flagLogLevel  = "log-level"
)

var exitCode int

// newViper returns a viper instance reading SALES_ETL_* env vars, e.g. SALES_ETL_THRESHOLD
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Build the cobra command that handles our command line tool.
// With no sub command the local run is executed.
func rootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sales-etl [command]",
		Short:         "Enrich and filter sales records and save them as parquet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// the flag takes precedence over SALES_ETL_LOG_LEVEL
			if cmd.Flags().Changed(flagLogLevel) {
				slog.SetDefault(logging.NewLogger(os.Stderr, "cli", logging.ParseLevel(v.GetString(flagLogLevel))))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEtl(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to an etl.hcl config file")
	flags.String(flagInput, constants.DefaultInputPath, "Path of the CSV file to read")
	flags.String(flagOutput, constants.DefaultOutputPath, "Path of the parquet file to write")
	flags.Float64(flagThreshold, constants.DefaultThreshold, "Rows with total_value at or below this are dropped")
	flags.Bool(flagInclusive, false, "Keep rows with total_value equal to the threshold")
	flags.String(flagStorage, "", "Object store used by the event command (aws_s3_bucket, gcp_storage_bucket, file_system)")
	flags.String(flagLogLevel, "warn", "Log level (debug, info, warn, error, off)")
	for _, name := range []string{flagConfig, flagInput, flagOutput, flagThreshold, flagInclusive, flagStorage, flagLogLevel} {
		// cannot fail, the flag was just defined
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		runCmd(v),
		eventCmd(v),
		previewCmd(),
	)

	return rootCmd
}

func Execute() (code int) {
	defer func() {
		if r := recover(); r != nil {
			err := helpers.ToError(r)
			slog.Error("sales-etl failed", "error", err)
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
			code = 1
		}
	}()

	rootCmd := rootCommand(newViper())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		exitCode = 1
	}
	return exitCode
}
