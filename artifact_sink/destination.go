package artifact_sink

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/turbot/tailpipe-sales-etl/artifact_loader"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// DestinationResolver maps the location of a source object to the location its output is written to.
// It must never return the source location itself.
type DestinationResolver func(source types.ObjectLocation) (types.ObjectLocation, error)

type ResolverOptions struct {
	// every occurrence of BucketFrom in the bucket name is replaced with BucketTo
	BucketFrom string
	BucketTo   string
	// a trailing SourceExtension on the key is replaced with Extension;
	// keys without it get Extension appended
	SourceExtension string
	Extension       string
}

func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		BucketFrom:      constants.SourceBucketMarker,
		BucketTo:        constants.DestinationBucketMarker,
		SourceExtension: constants.CsvExtension,
		Extension:       constants.ParquetExtension,
	}
}

// RawToCleanResolver is the default naming convention:
// raw-sales/orders/jan.csv is written to clean-sales/orders/jan.parquet
func RawToCleanResolver() DestinationResolver {
	return NewResolver(DefaultResolverOptions())
}

// NewResolver returns a resolver using substring replacement on the bucket and extension replacement on the key
func NewResolver(opts ResolverOptions) DestinationResolver {
	return func(source types.ObjectLocation) (types.ObjectLocation, error) {
		if source.IsEmpty() {
			return types.ObjectLocation{}, fmt.Errorf("source bucket and key are required")
		}

		bucket := source.Bucket
		if opts.BucketFrom != "" {
			bucket = strings.ReplaceAll(bucket, opts.BucketFrom, opts.BucketTo)
		}

		// orders/jan.csv.gz is treated as orders/jan.csv
		key := artifact_loader.Factory.ContentName(source.Key)
		if opts.SourceExtension != "" && strings.HasSuffix(key, opts.SourceExtension) {
			key = strings.TrimSuffix(key, opts.SourceExtension)
		}
		key += opts.Extension

		return checkDestination(source, types.NewObjectLocation(bucket, key))
	}
}

// templateData is the data available to destination templates
type templateData struct {
	Bucket string
	Key    string
	Dir    string
	Name   string
	Ext    string
}

// NewTemplateResolver returns a resolver which renders the destination bucket and key from text/template
// templates, e.g. bucket "{{ .Bucket }}-processed", key "parquet/{{ .Dir }}/{{ .Name }}.parquet".
// An empty bucket template keeps the source bucket.
func NewTemplateResolver(bucketTemplate, keyTemplate string) (DestinationResolver, error) {
	if keyTemplate == "" {
		return nil, fmt.Errorf("key template is required")
	}
	if bucketTemplate == "" {
		bucketTemplate = "{{ .Bucket }}"
	}
	bucketTmpl, err := template.New("bucket").Option("missingkey=error").Parse(bucketTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid bucket template, %w", err)
	}
	keyTmpl, err := template.New("key").Option("missingkey=error").Parse(keyTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid key template, %w", err)
	}

	return func(source types.ObjectLocation) (types.ObjectLocation, error) {
		if source.IsEmpty() {
			return types.ObjectLocation{}, fmt.Errorf("source bucket and key are required")
		}
		data := templateData{
			Bucket: source.Bucket,
			Key:    source.Key,
			Dir:    source.Dir(),
			Name:   source.Name(),
			Ext:    source.Ext(),
		}
		bucket, err := render(bucketTmpl, data)
		if err != nil {
			return types.ObjectLocation{}, err
		}
		key, err := render(keyTmpl, data)
		if err != nil {
			return types.ObjectLocation{}, err
		}
		// a template for keys at the bucket root may render a leading slash, e.g. "/jan.parquet"
		key = strings.TrimPrefix(key, "/")
		return checkDestination(source, types.NewObjectLocation(bucket, key))
	}, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template, %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func checkDestination(source, dest types.ObjectLocation) (types.ObjectLocation, error) {
	if dest.IsEmpty() {
		return types.ObjectLocation{}, fmt.Errorf("destination for %s has an empty bucket or key", source)
	}
	if dest == source {
		return types.ObjectLocation{}, fmt.Errorf("destination for %s is the source object", source)
	}
	return dest, nil
}
