package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrossi/linterkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWorkChannel creates a channel that completes work after a brief delay
func makeWorkChannel() chan struct{} {
	ch := make(chan struct{})
	go func() {
		timer := time.NewTimer(10 * time.Millisecond)
		<-timer.C
		close(ch)
	}()
	return ch
}

func TestNewRunner(t *testing.T) {
	assert.Greater(t, NewRunner(0).maxWorkers, 0)
	assert.Greater(t, NewRunner(-3).maxWorkers, 0)
	assert.Equal(t, 2, NewRunner(2).maxWorkers)
}

func TestRunner_ExecuteTasks(t *testing.T) {
	tests := []struct {
		name       string
		maxWorkers int
		linters    int
		failing    int
	}{
		{"no tasks", 4, 0, 0},
		{"single task", 4, 1, 0},
		{"more tasks than workers", 2, 6, 0},
		{"more workers than tasks", 8, 3, 0},
		{"some failures", 3, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			var tasks []Task
			var adapters []*MockAdapter
			for i := 0; i < tt.linters; i++ {
				name := fmt.Sprintf("linter%d", i)
				adapter := &MockAdapter{
					name:     name,
					offenses: []linterkit.Offense{offense(name, "C1", i, 0)},
					workChan: makeWorkChannel(),
				}
				if i < tt.failing {
					adapter.err = errors.New("bad output")
				}
				entry, err := registry.Register(testConfig(name), adapter)
				require.NoError(t, err)
				tasks = append(tasks, Task{Entry: entry, Params: linterkit.LinterParams{DocumentURI: "file:///a.py"}})
				adapters = append(adapters, adapter)
			}

			results := NewRunner(tt.maxWorkers).ExecuteTasks(context.Background(), tasks)
			require.Len(t, results, tt.linters)

			failures := 0
			for i, result := range results {
				assert.Equal(t, fmt.Sprintf("linter%d", i), result.Linter, "results must keep task order")
				if result.Err != nil {
					failures++
					continue
				}
				require.Len(t, result.Offenses, 1)
				assert.Equal(t, linterkit.DocumentURI("file:///a.py"), result.Offenses[0].DocumentURI)
			}
			assert.Equal(t, tt.failing, failures)

			for _, adapter := range adapters {
				assert.Equal(t, int32(1), atomic.LoadInt32(&adapter.execCount))
			}
		})
	}
}

func TestRunner_ContextCancellation(t *testing.T) {
	registry := NewRegistry()
	var tasks []Task
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("slow%d", i)
		entry, err := registry.Register(testConfig(name), &MockAdapter{name: name, workChan: make(chan struct{})})
		require.NoError(t, err)
		tasks = append(tasks, Task{Entry: entry})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results := NewRunner(2).ExecuteTasks(ctx, tasks)
	require.Len(t, results, 4)
	for _, result := range results {
		assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	}
}

func TestRunner_Run(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"ruff", "mypy"} {
		adapter := &MockAdapter{name: name, offenses: []linterkit.Offense{offense(name, "X1", 1, 0)}}
		_, err := registry.Register(testConfig(name), adapter)
		require.NoError(t, err)
	}

	runner := NewRunner(4)
	results, err := runner.Run(context.Background(), registry, map[string]linterkit.LinterParams{
		"ruff": {DocumentURI: "file:///a.py"},
		"mypy": {DocumentURI: "file:///a.py"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "mypy", results[0].Linter)
	assert.Equal(t, "ruff", results[1].Linter)

	_, err = runner.Run(context.Background(), registry, map[string]linterkit.LinterParams{"pylint": {}})
	assert.ErrorIs(t, err, ErrUnknownLinter)
}

func TestAggregateResults(t *testing.T) {
	results := []TaskResult{
		{Linter: "ruff", Offenses: []linterkit.Offense{
			offense("ruff", "E501", 9, 80),
			offense("ruff", "F401", 0, 0),
		}},
		{Linter: "pylint", Err: errors.New("pylint exploded")},
		{Linter: "mypy", Offenses: []linterkit.Offense{
			offense("mypy", "attr-defined", 0, 0),
		}},
	}

	offenses, err := AggregateResults(results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pylint exploded")

	require.Len(t, offenses, 3)
	assert.Equal(t, "mypy", offenses[0].Source)
	assert.Equal(t, "F401", offenses[1].Code)
	assert.Equal(t, "E501", offenses[2].Code)

	empty, err := AggregateResults(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestSortOffenses(t *testing.T) {
	a := offense("ruff", "B", 1, 0)
	a.DocumentURI = "file:///b.py"
	b := offense("ruff", "A", 1, 0)
	b.DocumentURI = "file:///a.py"
	c := offense("ruff", "A", 0, 5)
	c.DocumentURI = "file:///a.py"
	d := offense("ruff", "A", 0, 2)
	d.DocumentURI = "file:///a.py"

	offenses := []linterkit.Offense{a, b, c, d}
	SortOffenses(offenses)

	var order []string
	for _, o := range offenses {
		order = append(order, fmt.Sprintf("%s:%d:%d", o.DocumentURI, o.LineStart, o.ColumnStart))
	}
	assert.Equal(t, []string{
		"file:///a.py:0:2",
		"file:///a.py:0:5",
		"file:///a.py:1:0",
		"file:///b.py:1:0",
	}, order)
}
