// Package eventloop runs continuations one at a time on the goroutine that
// calls Run. Blocking work started with Go runs on its own goroutine and
// posts its continuation back to the loop, so program state is only ever
// touched by one goroutine.
package eventloop

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Task is a continuation. A non-nil error aborts the run.
type Task func() error

type Loop struct {
	tasks   []Task
	timers  timerHeap
	seq     uint64
	pending int // Go operations whose continuation has not been posted yet

	mu        sync.Mutex
	completed []Task
	notify    chan struct{}
}

func New() *Loop {
	return &Loop{notify: make(chan struct{}, 1)}
}

// Defer queues task to run after everything already queued.
func (l *Loop) Defer(task Task) {
	l.tasks = append(l.tasks, task)
}

// Go runs work on a new goroutine and queues then(work's error) on the loop
// once work returns. work must not touch loop-owned state.
func (l *Loop) Go(work func() error, then func(error) error) {
	l.pending++
	go func() {
		err := work()
		l.mu.Lock()
		l.completed = append(l.completed, func() error { return then(err) })
		l.mu.Unlock()
		select {
		case l.notify <- struct{}{}:
		default:
		}
	}()
}

// After queues task to run once d has elapsed. Timers with equal deadlines
// fire in the order they were added.
func (l *Loop) After(d time.Duration, task Task) {
	l.seq++
	heap.Push(&l.timers, &timer{at: time.Now().Add(d), seq: l.seq, task: task})
}

// Idle reports whether nothing is queued, scheduled or in flight.
func (l *Loop) Idle() bool {
	return len(l.tasks) == 0 && len(l.timers) == 0 && l.pending == 0
}

// Run drains the loop until it is idle, a task fails or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.RunUntil(ctx, nil)
}

// RunUntil is Run with an extra stop condition checked before every task.
// It may be called from inside a running task; the nested call shares the
// same queues.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	for {
		if done != nil && done() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		l.collect()

		if len(l.tasks) > 0 {
			task := l.tasks[0]
			l.tasks[0] = nil
			l.tasks = l.tasks[1:]
			if err := task(); err != nil {
				return err
			}
			continue
		}

		var t *time.Timer
		var wait <-chan time.Time
		if len(l.timers) > 0 {
			next := l.timers[0]
			d := time.Until(next.at)
			if d <= 0 {
				heap.Pop(&l.timers)
				if err := next.task(); err != nil {
					return err
				}
				continue
			}
			t = time.NewTimer(d)
			wait = t.C
		} else if l.pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
		case <-l.notify:
		case <-wait:
		}
		if t != nil {
			t.Stop()
		}
	}
}

// collect moves posted Go continuations onto the task queue.
func (l *Loop) collect() {
	l.mu.Lock()
	done := l.completed
	l.completed = nil
	l.mu.Unlock()

	l.pending -= len(done)
	l.tasks = append(l.tasks, done...)
}

type timer struct {
	at   time.Time
	seq  uint64
	task Task
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x interface{}) {
	*h = append(*h, x.(*timer))
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
