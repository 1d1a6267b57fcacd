package artifact_sink

import (
	"context"

	"github.com/turbot/tailpipe-sales-etl/table"
)

// Sink serializes the filtered table and writes it to its destination
type Sink interface {
	Identifier() string
	// Location describes the destination, for logging
	Location() string
	// Write returns the location the table was written to
	Write(ctx context.Context, t *table.Table) (string, error)
}
