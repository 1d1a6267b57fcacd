package observable

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/turbot/tailpipe-sales-etl/events"
)

// Base provides a base implementation of the Observable interface.
// It is embedded in etl.Runner.
type Base struct {
	observerLock sync.RWMutex
	Observers    []Observer
}

func (p *Base) AddObserver(o Observer) error {
	slog.Debug("AddObserver")
	p.observerLock.Lock()
	p.Observers = append(p.Observers, o)
	p.observerLock.Unlock()

	return nil
}

func (p *Base) NotifyObservers(ctx context.Context, e events.Event) error {
	p.observerLock.RLock()
	defer p.observerLock.RUnlock()
	var notifyErrors []error
	for _, observer := range p.Observers {
		err := observer.Notify(ctx, e)
		if err != nil {
			notifyErrors = append(notifyErrors, err)
		}
	}

	return errors.Join(notifyErrors...)
}
