package artifact_source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/turbot/tailpipe-sales-etl/artifact_loader"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// ObjectStoreSource reads a csv object from a bucket
type ObjectStoreSource struct {
	Store          object_store.ObjectStore
	ObjectLocation types.ObjectLocation
	CsvOpts        []table.CsvOpts
}

func NewObjectStoreSource(store object_store.ObjectStore, location types.ObjectLocation, opts ...table.CsvOpts) *ObjectStoreSource {
	return &ObjectStoreSource{
		Store:          store,
		ObjectLocation: location,
		CsvOpts:        opts,
	}
}

func (s *ObjectStoreSource) Identifier() string {
	return s.Store.Identifier()
}

func (s *ObjectStoreSource) Location() string {
	return s.ObjectLocation.String()
}

// Load fetches the object and parses it. Any storage failure is returned as a StorageAccessError.
func (s *ObjectStoreSource) Load(ctx context.Context) (*table.Table, error) {
	data, err := s.Store.Get(ctx, s.ObjectLocation.Bucket, s.ObjectLocation.Key)
	if err != nil {
		return nil, &types.StorageAccessError{
			Location: s.ObjectLocation,
			Code:     object_store.ErrorCode(err),
			Err:      err,
		}
	}

	loader := artifact_loader.Factory.ForName(s.ObjectLocation.Key)
	r, err := loader.Load(ctx, s.ObjectLocation.String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	t, err := table.LoadCsv(r, s.CsvOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s, %w", s.ObjectLocation, err)
	}
	slog.Info("ObjectStoreSource loaded table", "store", s.Store.Identifier(), "location", s.ObjectLocation.String(), "bytes", len(data), "rows", t.NumRows())
	return t, nil
}
