package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const flagRows = "rows"

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file.parquet>",
		Short: "Print the first rows of a parquet file",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreview,
	}
	cmd.Flags().Int(flagRows, constants.DefaultPreviewRows, "Number of rows to print")
	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	rows, err := cmd.Flags().GetInt(flagRows)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return &types.NotFoundError{Path: args[0]}
		}
		return fmt.Errorf("failed to read %s, %w", args[0], err)
	}
	t, err := artifact_sink.DecodeParquet(cmd.Context(), data)
	if err != nil {
		return err
	}
	t.Preview(cmd.OutOrStdout(), rows)
	return nil
}
