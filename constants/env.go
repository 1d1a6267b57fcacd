package constants

const (
	AppName = "tailpipe-sales-etl"

	EnvPrefix      = "SALES_ETL"
	EnvConfig      = "SALES_ETL_CONFIG"
	EnvLogLevel    = "SALES_ETL_LOG_LEVEL"
	EnvStorage     = "SALES_ETL_STORAGE"
	EnvStoreRoot   = "SALES_ETL_STORE_ROOT"
	EnvAwsEndpoint = "AWS_ENDPOINT_URL"
)

// storage identifiers
const (
	StorageAwsS3Bucket      = "aws_s3_bucket"
	StorageGcpStorageBucket = "gcp_storage_bucket"
	StorageFileSystem       = "file_system"
)
