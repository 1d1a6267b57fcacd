package constants

const (
	// local invocation defaults
	DefaultInputPath  = "../sales_data.csv"
	DefaultOutputPath = "processed_data.parquet"

	// source columns consumed by the pipeline
	ColumnDate     = "date"
	ColumnQuantity = "quantity"
	ColumnPrice    = "price"
	// derived column
	ColumnTotalValue = "total_value"

	DefaultThreshold = 50.0

	CsvExtension     = ".csv"
	ParquetExtension = ".parquet"
	GzipExtension    = ".gz"

	// destination naming convention
	SourceBucketMarker      = "raw"
	DestinationBucketMarker = "clean"

	DefaultPreviewRows = 5
)
