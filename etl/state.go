package etl

// State is the state of a single run
type State int

const (
	StateStarted State = iota
	StateSourceRead
	StateTransformed
	StateFiltered
	StateWritten
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateSourceRead:
		return "source_read"
	case StateTransformed:
		return "transformed"
	case StateFiltered:
		return "filtered"
	case StateWritten:
		return "written"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns whether no further transitions are possible
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// next returns the state following s on the success path
func (s State) next() State {
	if s.IsTerminal() {
		return s
	}
	return s + 1
}
