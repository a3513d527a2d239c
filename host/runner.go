package host

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/jrossi/linterkit"
)

// Runner calls GetOffenses for several linters concurrently
type Runner struct {
	maxWorkers int
}

// NewRunner creates a runner with the given number of workers.
// If maxWorkers is 0 or negative, it defaults to runtime.NumCPU()
func NewRunner(maxWorkers int) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &Runner{
		maxWorkers: maxWorkers,
	}
}

// Task is one linter's command output to turn into offenses
type Task struct {
	Entry  *Entry
	Params linterkit.LinterParams
}

// TaskResult is the outcome of a Task
type TaskResult struct {
	Linter   string
	Offenses []linterkit.Offense
	Err      error
}

// ExecuteTasks runs the tasks on the worker pool. Results are returned in
// task order.
func (r *Runner) ExecuteTasks(ctx context.Context, tasks []Task) []TaskResult {
	if len(tasks) == 0 {
		return nil
	}

	results := make([]TaskResult, len(tasks))

	// For single task, run directly without goroutines
	if len(tasks) == 1 {
		results[0] = runTask(ctx, tasks[0])
		return results
	}

	indexes := make(chan int, len(tasks))
	var wg sync.WaitGroup

	numWorkers := r.maxWorkers
	if len(tasks) < numWorkers {
		numWorkers = len(tasks)
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = runTask(ctx, tasks[idx])
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

func runTask(ctx context.Context, task Task) TaskResult {
	select {
	case <-ctx.Done():
		return TaskResult{Linter: task.Entry.Name(), Err: ctx.Err()}
	default:
	}

	offenses, err := task.Entry.Offenses(ctx, task.Params)
	return TaskResult{
		Linter:   task.Entry.Name(),
		Offenses: offenses,
		Err:      err,
	}
}

// Run builds tasks from the registry for the given per-linter outputs and
// executes them. Linters without output are skipped.
func (r *Runner) Run(ctx context.Context, registry *Registry, outputs map[string]linterkit.LinterParams) ([]TaskResult, error) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]Task, 0, len(names))
	for _, name := range names {
		entry, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{Entry: entry, Params: outputs[name]})
	}
	return r.ExecuteTasks(ctx, tasks), nil
}

// AggregateResults merges the offenses of all results, sorted by document
// and position. Failed linters are reported in the returned error.
func AggregateResults(results []TaskResult) ([]linterkit.Offense, error) {
	var errs *multierror.Error
	offenses := []linterkit.Offense{}

	for _, result := range results {
		if result.Err != nil {
			errs = multierror.Append(errs, result.Err)
			continue
		}
		offenses = append(offenses, result.Offenses...)
	}

	SortOffenses(offenses)
	return offenses, errs.ErrorOrNil()
}

// SortOffenses orders offenses by document, start position, source and code
func SortOffenses(offenses []linterkit.Offense) {
	sort.SliceStable(offenses, func(i, j int) bool {
		a, b := offenses[i], offenses[j]
		if a.DocumentURI != b.DocumentURI {
			return a.DocumentURI < b.DocumentURI
		}
		if a.LineStart != b.LineStart {
			return a.LineStart < b.LineStart
		}
		if a.ColumnStart != b.ColumnStart {
			return a.ColumnStart < b.ColumnStart
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Code < b.Code
	})
}
