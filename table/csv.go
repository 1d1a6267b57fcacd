package table

// opts

type CsvOpts func(*CsvConfig)

func WithCsvDelimiter(delimiter rune) CsvOpts {
	return func(c *CsvConfig) {
		c.Delimiter = delimiter
	}
}

func WithCsvComment(comment rune) CsvOpts {
	return func(c *CsvConfig) {
		c.Comment = comment
	}
}

// WithSnakeCaseColumnNames converts header names to snake_case (`Unit Price` -> `unit_price`)
func WithSnakeCaseColumnNames() CsvOpts {
	return func(c *CsvConfig) {
		c.SnakeCaseColumnNames = true
	}
}

type CsvConfig struct {
	Delimiter            rune
	Comment              rune
	SnakeCaseColumnNames bool
}

func newCsvConfig(opts ...CsvOpts) *CsvConfig {
	config := &CsvConfig{
		Delimiter: ',', // Default delimiter
		Comment:   0,   // No comment character by default
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}
