package events

// StateChanged is raised for every transition of the run state machine
type StateChanged struct {
	Base
	From string
	To   string
	Rows int
}

func NewStateChangedEvent(executionId string, from, to string, rows int) *StateChanged {
	return &StateChanged{
		Base: newBase(executionId),
		From: from,
		To:   to,
		Rows: rows,
	}
}
