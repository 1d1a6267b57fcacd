package object_store

import (
	"context"
	"errors"
	"os"
	"path"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/smithy-go"
	"google.golang.org/api/googleapi"
)

// ObjectStore is the narrow storage contract used by the sources and sinks
type ObjectStore interface {
	Identifier() string
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// ErrorCode extracts the provider error code from a storage error, if there is one
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) || errors.Is(err, os.ErrNotExist) {
		return "NotFound"
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return strconv.Itoa(gErr.Code)
	}
	if errors.Is(err, os.ErrPermission) {
		return "AccessDenied"
	}
	return ""
}

var contentTypes = map[string]string{
	".parquet": "application/vnd.apache.parquet",
	".csv":     "text/csv",
}

func contentType(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
