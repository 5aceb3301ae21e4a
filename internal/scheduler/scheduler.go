// Package scheduler runs periodic tasks in a single goroutine. Tasks never
// overlap: a long task delays the ones behind it rather than running beside
// them.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Task is one periodic job.
type Task struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means no limit beyond the parent context.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Result is passed to the OnResult hook after every run.
type Result struct {
	Task     string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Scheduler runs tasks on their intervals.
type Scheduler struct {
	tasks []Task
	// OnResult, when set, is called after each run.
	OnResult func(Result)

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

// New creates a scheduler. Every task needs a name, a positive interval and
// a Run function.
func New(tasks ...Task) (*Scheduler, error) {
	for _, t := range tasks {
		if t.Name == "" || t.Interval <= 0 || t.Run == nil {
			return nil, fmt.Errorf("invalid task %q: name, positive interval and run function are required", t.Name)
		}
	}
	return &Scheduler{tasks: tasks, now: time.Now, after: time.After}, nil
}

// Run executes every task immediately, then each again whenever its interval
// has elapsed since its last start. Task errors are logged and do not stop
// the loop. Run returns when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.tasks) == 0 {
		<-ctx.Done()
		return nil
	}

	next := make([]time.Time, len(s.tasks))
	start := s.now()
	for i := range next {
		next[i] = start
	}

	for {
		for i, task := range s.tasks {
			if ctx.Err() != nil {
				return nil
			}
			if s.now().Before(next[i]) {
				continue
			}
			next[i] = s.now().Add(task.Interval)
			s.runTask(ctx, task)
		}

		wait := earliest(next).Sub(s.now())
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.after(wait):
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, task Task) {
	runCtx := ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	started := s.now()
	err := safeRun(runCtx, task)
	res := Result{Task: task.Name, Started: started, Duration: s.now().Sub(started), Err: err}
	if err != nil {
		log.Printf("[SCHEDULER] %s failed after %v: %v", task.Name, res.Duration, err)
	}
	if s.OnResult != nil {
		s.OnResult(res)
	}
}

// safeRun turns a panic in a task into an error so the loop keeps going.
func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}

func earliest(times []time.Time) time.Time {
	first := times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
	}
	return first
}
