package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/turbot/tailpipe-sales-etl/config"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/handler"
	"github.com/turbot/tailpipe-sales-etl/logging"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/transform"
)

func main() {
	logging.Initialize("lambda", "info")

	h, err := newHandler(context.Background())
	if err != nil {
		slog.Error("failed to initialise handler", "error", err)
		os.Exit(1)
	}
	lambda.Start(h.Handle)
}

// newHandler builds the store once per container; it is shared by every invocation.
// SALES_ETL_CONFIG optionally names an HCL config file bundled with the function.
func newHandler(ctx context.Context) (*handler.Handler, error) {
	cfg := config.Default()
	if path, ok := os.LookupEnv(constants.EnvConfig); ok {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if storage, ok := os.LookupEnv(constants.EnvStorage); ok {
		cfg.Storage = storage
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	store, err := object_store.NewObjectStore(ctx, cfg.StoreConfig(os.Getenv(constants.EnvStoreRoot)))
	if err != nil {
		return nil, err
	}
	slog.Info("Initialized handler", "store", store.Identifier())

	return handler.New(store,
		handler.WithResolver(resolver),
		handler.WithPipeline(transform.NewPipeline(cfg.PipelineOptions()...)),
		handler.WithCsvOpts(cfg.CsvOpts()...),
	), nil
}
