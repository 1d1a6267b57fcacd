package transform

import (
	"log/slog"

	"github.com/turbot/tailpipe-sales-etl/constants"
	"github.com/turbot/tailpipe-sales-etl/table"
)

type Options struct {
	DateColumn      string
	ThresholdColumn string
	Threshold       float64
	Inclusive       bool
	StrictDates     bool
}

func DefaultOptions() Options {
	return Options{
		DateColumn:      constants.ColumnDate,
		ThresholdColumn: constants.ColumnTotalValue,
		Threshold:       constants.DefaultThreshold,
		Inclusive:       false,
	}
}

type PipelineOption func(*Options)

func WithDateColumn(column string) PipelineOption {
	return func(o *Options) {
		o.DateColumn = column
	}
}

func WithThreshold(column string, threshold float64, inclusive bool) PipelineOption {
	return func(o *Options) {
		o.ThresholdColumn = column
		o.Threshold = threshold
		o.Inclusive = inclusive
	}
}

func WithStrictDates(strict bool) PipelineOption {
	return func(o *Options) {
		o.StrictDates = strict
	}
}

// Pipeline applies the fixed sequence parse dates -> add total_value -> filter by threshold
type Pipeline struct {
	Options Options
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{Options: o}
}

// Transform parses the date column and adds the total_value column
func (p *Pipeline) Transform(t *table.Table) (*table.Table, error) {
	parser := DateParser{Strict: p.Options.StrictDates}
	res, err := parser.ParseDates(t, p.Options.DateColumn)
	if err != nil {
		return nil, err
	}
	return AddTotalValue(res)
}

// Filter keeps the rows above the configured threshold
func (p *Pipeline) Filter(t *table.Table) (*table.Table, error) {
	res, err := FilterThreshold(t, p.Options.ThresholdColumn, p.Options.Threshold, p.Options.Inclusive)
	if err != nil {
		return nil, err
	}
	slog.Debug("Pipeline filtered rows", "column", p.Options.ThresholdColumn, "threshold", p.Options.Threshold, "in", t.NumRows(), "out", res.NumRows())
	return res, nil
}

// Run applies Transform then Filter, stopping at the first error
func (p *Pipeline) Run(t *table.Table) (*table.Table, error) {
	transformed, err := p.Transform(t)
	if err != nil {
		return nil, err
	}
	return p.Filter(transformed)
}
