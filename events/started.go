package events

type Started struct {
	Base
	// Source is the location the run reads from
	Source string
}

func NewStartedEvent(executionId string, source string) *Started {
	return &Started{
		Base:   newBase(executionId),
		Source: source,
	}
}
