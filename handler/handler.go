package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/artifact_source"
	"github.com/turbot/tailpipe-sales-etl/etl"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/transform"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const (
	StatusSkipped = "skipped"
	ReasonNoEvent = "No S3 Event"
)

// Response is returned to the hosting runtime.
// A skipped invocation sets Status and Reason, a processed one sets StatusCode and Body.
type Response struct {
	Status     string `json:"status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Body       string `json:"body,omitempty"`
}

func skipped() Response {
	return Response{Status: StatusSkipped, Reason: ReasonNoEvent}
}

func processed(key string) Response {
	return Response{StatusCode: http.StatusOK, Body: fmt.Sprintf("Success! Processed %s", key)}
}

// Handler runs the pipeline for the object named in an object-created event
type Handler struct {
	Store    object_store.ObjectStore
	Resolver artifact_sink.DestinationResolver
	Pipeline *transform.Pipeline
	CsvOpts  []table.CsvOpts
}

type HandlerOption func(*Handler)

func WithResolver(resolver artifact_sink.DestinationResolver) HandlerOption {
	return func(h *Handler) {
		h.Resolver = resolver
	}
}

func WithPipeline(pipeline *transform.Pipeline) HandlerOption {
	return func(h *Handler) {
		h.Pipeline = pipeline
	}
}

func WithCsvOpts(opts ...table.CsvOpts) HandlerOption {
	return func(h *Handler) {
		h.CsvOpts = opts
	}
}

// New returns a handler using the given store for both reads and writes.
// By default, output is written to the raw->clean destination with the default pipeline.
func New(store object_store.ObjectStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		Store:    store,
		Resolver: artifact_sink.RawToCleanResolver(),
		Pipeline: transform.NewPipeline(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes the first record of the event.
// An event with no usable record is skipped without touching the store.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (Response, error) {
	source, ok := sourceLocation(event)
	if !ok {
		slog.Info("Handler skipping event", "reason", ReasonNoEvent)
		return skipped(), nil
	}
	if len(event.Records) > 1 {
		slog.Warn("Handler only processes the first record", "records", len(event.Records))
	}

	dest, err := h.Resolver(source)
	if err != nil {
		return Response{}, fmt.Errorf("failed to resolve destination for %s, %w", source, err)
	}
	slog.Info("Handler processing object", "source", source.String(), "destination", dest.String())

	runner := etl.NewRunner(
		artifact_source.NewObjectStoreSource(h.Store, source, h.CsvOpts...),
		h.Pipeline,
		artifact_sink.NewObjectStoreSink(h.Store, dest),
	)
	if _, err := runner.Run(ctx); err != nil {
		return Response{}, err
	}
	return processed(source.Key), nil
}

// HandleJSON decodes a raw event payload and handles it
func (h *Handler) HandleJSON(ctx context.Context, payload []byte) (Response, error) {
	var event events.S3Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Response{}, fmt.Errorf("failed to decode event payload, %w", err)
	}
	return h.Handle(ctx, event)
}

// sourceLocation returns the bucket and key of the first record.
// The url-decoded key is preferred, as keys in notifications are url-encoded.
func sourceLocation(event events.S3Event) (types.ObjectLocation, bool) {
	if len(event.Records) == 0 {
		return types.ObjectLocation{}, false
	}
	s3 := event.Records[0].S3
	key := s3.Object.URLDecodedKey
	if key == "" {
		key = s3.Object.Key
	}
	loc := types.NewObjectLocation(s3.Bucket.Name, key)
	if loc.IsEmpty() {
		return types.ObjectLocation{}, false
	}
	return loc, true
}
