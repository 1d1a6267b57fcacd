package events

import "time"

type Event interface {
	IsEvent()
}

type Base struct {
	ExecutionId string
	Timestamp   time.Time
}

func newBase(executionId string) Base {
	return Base{ExecutionId: executionId, Timestamp: time.Now()}
}

func (b *Base) IsEvent() {}
