package main

import (
	"os"

	"github.com/turbot/tailpipe-sales-etl/logging"
)

func main() {
	logging.Initialize("cli", "warn")
	os.Exit(Execute())
}
