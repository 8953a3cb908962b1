package pipeline

import (
	"context"
	"fmt"
	"log"
)

// taskOutcome is one task's terminal report to the collector.
type taskOutcome struct {
	task Task
	res  *TaskResult // nil on failure
	err  error
}

// runAll fans the tasks out on goroutines and collects every outcome. A
// failing task yields a nil result and one diagnostic log line; it never
// affects other tasks or the run. onDone, when non-nil, is invoked serially
// from the collector in real completion order, exactly once per task, before
// runAll returns. The returned map has one entry per task ID.
func runAll(ctx context.Context, tasks []Task, onDone func(done int, out taskOutcome)) map[string]*TaskResult {
	completions := make(chan taskOutcome, len(tasks))
	for _, t := range tasks {
		t := t
		go func() {
			res, err := runIsolated(ctx, t)
			completions <- taskOutcome{task: t, res: res, err: err}
		}()
	}

	results := make(map[string]*TaskResult, len(tasks))
	for done := 1; done <= len(tasks); done++ {
		out := <-completions
		if out.err != nil {
			log.Printf("[PIPELINE] source %q failed: %v", out.task.ID, out.err)
		}
		results[out.task.ID] = out.res
		if onDone != nil {
			onDone(done, out)
		}
	}
	return results
}

// runIsolated invokes one task, converting a panic into an ordinary failure
// so a faulting source cannot take down the run.
func runIsolated(ctx context.Context, t Task) (res *TaskResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Run(ctx)
}
