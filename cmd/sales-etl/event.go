package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-sales-etl/handler"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/transform"
)

const (
	flagPayload   = "payload"
	flagStoreRoot = "store-root"
)

func eventCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Handle an object-created event payload, as the lambda does",
		Long: `Handle an object-created event payload, as the lambda does.

The payload is read from --payload, or from stdin if --payload is "-".
With --store-root, buckets are directories under the given root instead of the configured object store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, v)
		},
	}
	cmd.Flags().String(flagPayload, "-", "Path of the event JSON")
	cmd.Flags().String(flagStoreRoot, "", "Use a file system store rooted at this directory")
	_ = v.BindPFlag(flagStoreRoot, cmd.Flags().Lookup(flagStoreRoot))
	return cmd
}

func runEvent(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	payloadPath, err := cmd.Flags().GetString(flagPayload)
	if err != nil {
		return err
	}
	payload, err := readPayload(cmd.InOrStdin(), payloadPath)
	if err != nil {
		return err
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	store, err := object_store.NewObjectStore(cmd.Context(), cfg.StoreConfig(v.GetString(flagStoreRoot)))
	if err != nil {
		return fmt.Errorf("failed to create object store, %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	h := handler.New(store,
		handler.WithResolver(resolver),
		handler.WithPipeline(transform.NewPipeline(cfg.PipelineOptions()...)),
		handler.WithCsvOpts(cfg.CsvOpts()...),
	)
	resp, err := h.HandleJSON(cmd.Context(), payload)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload, %w", err)
	}
	return data, nil
}
