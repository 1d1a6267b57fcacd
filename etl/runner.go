package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/artifact_source"
	"github.com/turbot/tailpipe-sales-etl/context_values"
	"github.com/turbot/tailpipe-sales-etl/events"
	"github.com/turbot/tailpipe-sales-etl/observable"
	"github.com/turbot/tailpipe-sales-etl/table"
	"github.com/turbot/tailpipe-sales-etl/transform"
	"github.com/turbot/tailpipe-sales-etl/types"
)

// Runner executes a single run: Source -> Pipeline -> Sink
type Runner struct {
	observable.Base

	Source   artifact_source.Source
	Pipeline *transform.Pipeline
	Sink     artifact_sink.Sink
}

func NewRunner(source artifact_source.Source, pipeline *transform.Pipeline, sink artifact_sink.Sink) *Runner {
	if pipeline == nil {
		pipeline = transform.NewPipeline()
	}
	return &Runner{
		Source:   source,
		Pipeline: pipeline,
		Sink:     sink,
	}
}

// Result describes a finished run
type Result struct {
	ExecutionId string
	State       State
	// Transitions holds every state the run passed through, starting with StateStarted
	Transitions []State
	RowsRead    int
	RowsWritten int
	Destination string
	// Table is the filtered table (nil unless the run reached StateFiltered)
	Table  *table.Table
	Timing types.TimingMap
}

// run holds the mutable state of a single Run call
type run struct {
	r      *Runner
	ctx    context.Context
	result *Result
	logger *slog.Logger
}

// Run executes the run. On the first error the run moves to StateFailed and the error is returned
// along with the result; nothing is written unless every earlier stage succeeded.
// The execution id is taken from the context if present, otherwise one is generated.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Source == nil || r.Sink == nil {
		return nil, fmt.Errorf("runner requires a source and a sink")
	}

	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		executionId = uuid.NewString()
		ctx = context_values.WithExecutionId(ctx, executionId)
	}

	s := &run{
		r:   r,
		ctx: ctx,
		result: &Result{
			ExecutionId: executionId,
			State:       StateStarted,
			Transitions: []State{StateStarted},
			Timing:      types.TimingMap{},
		},
		logger: slog.With("execution_id", executionId),
	}
	s.logger.Info("Run started", "source", r.Source.Location(), "sink", r.Sink.Location())
	if err := r.NotifyObservers(ctx, events.NewStartedEvent(executionId, r.Source.Location())); err != nil {
		s.logger.Warn("failed to notify observers", "error", err)
	}

	err = s.execute()
	if err != nil {
		s.fail(err)
	}
	if notifyErr := r.NotifyObservers(ctx, events.NewCompletedEvent(executionId, s.result.RowsRead, s.result.RowsWritten, s.result.Destination, s.result.Timing, err)); notifyErr != nil {
		s.logger.Warn("failed to notify observers", "error", notifyErr)
	}
	if err != nil {
		return s.result, err
	}
	s.logger.Info("Run complete", "rows_read", s.result.RowsRead, "rows_written", s.result.RowsWritten, "destination", s.result.Destination)
	return s.result, nil
}

func (s *run) execute() error {
	var raw, transformed, filtered *table.Table

	err := s.stage("read", func() (err error) {
		raw, err = s.r.Source.Load(s.ctx)
		if err != nil {
			return fmt.Errorf("failed to read source %s, %w", s.r.Source.Location(), err)
		}
		s.result.RowsRead = raw.NumRows()
		return nil
	}, func() int { return s.result.RowsRead })
	if err != nil {
		return err
	}

	err = s.stage("transform", func() (err error) {
		transformed, err = s.r.Pipeline.Transform(raw)
		if err != nil {
			return fmt.Errorf("failed to transform rows, %w", err)
		}
		return nil
	}, func() int { return transformed.NumRows() })
	if err != nil {
		return err
	}

	err = s.stage("filter", func() (err error) {
		filtered, err = s.r.Pipeline.Filter(transformed)
		if err != nil {
			return fmt.Errorf("failed to filter rows, %w", err)
		}
		s.result.Table = filtered
		return nil
	}, func() int { return filtered.NumRows() })
	if err != nil {
		return err
	}

	err = s.stage("write", func() error {
		dest, err := s.r.Sink.Write(s.ctx, filtered)
		if err != nil {
			return fmt.Errorf("failed to write %s, %w", s.r.Sink.Location(), err)
		}
		s.result.Destination = dest
		s.result.RowsWritten = filtered.NumRows()
		return nil
	}, func() int { return s.result.RowsWritten })
	if err != nil {
		return err
	}

	s.transition(StateDone, s.result.RowsWritten)
	return nil
}

// stage times f and on success advances the run to the next state
func (s *run) stage(name string, f func() error, rows func() int) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	timing := types.Timing{Start: time.Now()}
	err := f()
	timing.End = time.Now()
	s.result.Timing[name] = timing
	if err != nil {
		return err
	}
	s.transition(s.result.State.next(), rows())
	return nil
}

func (s *run) transition(to State, rows int) {
	from := s.result.State
	s.result.State = to
	s.result.Transitions = append(s.result.Transitions, to)
	s.logger.Debug("Run state changed", "from", from.String(), "to", to.String(), "rows", rows)

	if err := s.r.NotifyObservers(s.ctx, events.NewStateChangedEvent(s.result.ExecutionId, from.String(), to.String(), rows)); err != nil {
		s.logger.Warn("failed to notify observers", "error", err)
	}
}

func (s *run) fail(err error) {
	s.logger.Error("Run failed", "state", s.result.State.String(), "error", err)
	s.transition(StateFailed, 0)
}
