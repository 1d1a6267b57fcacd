package etl

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-sales-etl/artifact_sink"
	"github.com/turbot/tailpipe-sales-etl/artifact_source"
	"github.com/turbot/tailpipe-sales-etl/context_values"
	"github.com/turbot/tailpipe-sales-etl/events"
	"github.com/turbot/tailpipe-sales-etl/object_store"
	"github.com/turbot/tailpipe-sales-etl/observable"
	"github.com/turbot/tailpipe-sales-etl/types"
)

const salesCsv = `date,quantity,price
2023-01-01,10,6
2023-01-02,5,5
2023-01-03,2,25
2023-01-04,3,20
`

var (
	src = types.NewObjectLocation("raw-sales", "orders/jan.csv")
	dst = types.NewObjectLocation("clean-sales", "orders/jan.parquet")
)

func newTestRunner(store *object_store.MemoryStore) *Runner {
	return NewRunner(
		artifact_source.NewObjectStoreSource(store, src),
		nil,
		artifact_sink.NewObjectStoreSink(store, dst),
	)
}

func TestRunner_Run(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed(src.Bucket, src.Key, []byte(salesCsv))
	runner := newTestRunner(store)

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []State{StateStarted, StateSourceRead, StateTransformed, StateFiltered, StateWritten, StateDone}, res.Transitions)
	assert.Equal(t, 4, res.RowsRead)
	// 60 and 60 pass, 25 and exactly 50 do not
	assert.Equal(t, 2, res.RowsWritten)
	assert.Equal(t, dst.String(), res.Destination)
	assert.NotEmpty(t, res.ExecutionId)
	assert.ElementsMatch(t, []string{"read", "transform", "filter", "write"}, res.Timing.Stages())

	data, ok := store.Object(dst.Bucket, dst.Key)
	require.True(t, ok)
	written, err := artifact_sink.DecodeParquet(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, res.Table.Rows, written.Rows)
}

func isError[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func TestRunner_Run_Failures(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		seed        bool
		putErr      error
		wantErr     func(error) bool
		wantStates  []State
		wantNoWrite bool
	}{
		{
			name:        "missing object",
			seed:        false,
			wantErr:     isError[*types.StorageAccessError],
			wantStates:  []State{StateStarted, StateFailed},
			wantNoWrite: true,
		},
		{
			name:        "malformed date",
			csv:         "date,quantity,price\nnot a date,10,6\n",
			seed:        true,
			wantErr:     isError[*types.MalformedDateError],
			wantStates:  []State{StateStarted, StateSourceRead, StateFailed},
			wantNoWrite: true,
		},
		{
			name:        "missing price column",
			csv:         "date,quantity\n2023-01-01,10\n",
			seed:        true,
			wantErr:     isError[*types.MissingColumnError],
			wantStates:  []State{StateStarted, StateSourceRead, StateFailed},
			wantNoWrite: true,
		},
		{
			name:       "write failure",
			csv:        salesCsv,
			seed:       true,
			putErr:     errors.New("access denied"),
			wantErr:    isError[*types.StorageWriteError],
			wantStates: []State{StateStarted, StateSourceRead, StateTransformed, StateFiltered, StateFailed},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := object_store.NewMemoryStore()
			if tt.seed {
				store.Seed(src.Bucket, src.Key, []byte(tt.csv))
			}
			store.PutErr = tt.putErr

			res, err := newTestRunner(store).Run(context.Background())
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), err.Error())

			assert.Equal(t, StateFailed, res.State)
			assert.Equal(t, tt.wantStates, res.Transitions)
			assert.Empty(t, res.Destination)
			if tt.wantNoWrite {
				assert.Empty(t, store.PutCalls)
			}
			_, ok := store.Object(dst.Bucket, dst.Key)
			assert.False(t, ok)
		})
	}
}

func TestRunner_Run_ExecutionIdFromContext(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed(src.Bucket, src.Key, []byte(salesCsv))

	ctx := context_values.WithExecutionId(context.Background(), "exec-42")
	res, err := newTestRunner(store).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exec-42", res.ExecutionId)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed(src.Bucket, src.Key, []byte(salesCsv))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newTestRunner(store).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, store.GetCalls)
}

func TestRunner_Run_NotifiesObservers(t *testing.T) {
	store := object_store.NewMemoryStore()
	store.Seed(src.Bucket, src.Key, []byte(salesCsv))
	runner := newTestRunner(store)

	var mut sync.Mutex
	var transitions []string
	var completed *events.Completed
	require.NoError(t, runner.AddObserver(observable.ObserverFunc(func(_ context.Context, e events.Event) error {
		mut.Lock()
		defer mut.Unlock()
		switch ev := e.(type) {
		case *events.StateChanged:
			transitions = append(transitions, ev.To)
		case *events.Completed:
			completed = ev
		}
		return nil
	})))

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"source_read", "transformed", "filtered", "written", "done"}, transitions)
	require.NotNil(t, completed)
	assert.Equal(t, res.ExecutionId, completed.ExecutionId)
	assert.Equal(t, 2, completed.RowsWritten)
	assert.NoError(t, completed.Err)
}

func TestRunner_Run_RequiresSourceAndSink(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "source_read", StateSourceRead.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.True(t, StateDone.IsTerminal())
	assert.False(t, StateWritten.IsTerminal())
	assert.Equal(t, StateDone, StateDone.next())
}
