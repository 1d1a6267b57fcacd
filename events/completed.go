package events

import (
	"github.com/turbot/tailpipe-sales-etl/types"
)

type Completed struct {
	Base
	RowsRead    int
	RowsWritten int
	Destination string
	Err         error
	Timing      types.TimingMap
}

func NewCompletedEvent(executionId string, rowsRead, rowsWritten int, destination string, timing types.TimingMap, err error) *Completed {
	return &Completed{
		Base:        newBase(executionId),
		RowsRead:    rowsRead,
		RowsWritten: rowsWritten,
		Destination: destination,
		Timing:      timing,
		Err:         err,
	}
}
