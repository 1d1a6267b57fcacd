package artifact_source

import (
	"context"

	"github.com/turbot/tailpipe-sales-etl/table"
)

// Source supplies the raw table for a run
type Source interface {
	Identifier() string
	// Location describes where the data is read from, for logging
	Location() string
	Load(ctx context.Context) (*table.Table, error)
}
