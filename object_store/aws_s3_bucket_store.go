package object_store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	typehelpers "github.com/turbot/go-kit/types"
	"github.com/turbot/tailpipe-sales-etl/constants"
)

// S3API is the subset of the S3 client used by AwsS3BucketStore
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AwsS3BucketStore is an ObjectStore backed by S3
type AwsS3BucketStore struct {
	client S3API
}

// NewAwsS3BucketStore builds the S3 client from the connection
func NewAwsS3BucketStore(ctx context.Context, conn *AwsConnection) (*AwsS3BucketStore, error) {
	if conn == nil {
		conn = &AwsConnection{}
	}
	if err := conn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid aws connection: %w", err)
	}

	cfg, err := conn.GetClientConfiguration(ctx)
	if err != nil {
		return nil, err
	}

	endpointUrl := conn.GetEndpointUrl()
	client := s3.NewFromConfig(*cfg, func(o *s3.Options) {
		if endpointUrl != "" {
			o.BaseEndpoint = aws.String(endpointUrl)
		}
		if conn.S3ForcePathStyle != nil {
			o.UsePathStyle = *conn.S3ForcePathStyle
		}
	})

	slog.Info("Initialized AwsS3BucketStore", "region", cfg.Region, "profile", typehelpers.SafeString(conn.Profile), "endpoint", endpointUrl)
	return &AwsS3BucketStore{client: client}, nil
}

// NewAwsS3BucketStoreWithClient wraps an existing client
func NewAwsS3BucketStoreWithClient(client S3API) *AwsS3BucketStore {
	return &AwsS3BucketStore{client: client}
}

func (s *AwsS3BucketStore) Identifier() string {
	return constants.StorageAwsS3Bucket
}

func (s *AwsS3BucketStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	getObjectOutput, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object, %w", err)
	}
	defer getObjectOutput.Body.Close()

	data, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body, %w", err)
	}
	return data, nil
}

func (s *AwsS3BucketStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to put object, %w", err)
	}
	return nil
}
