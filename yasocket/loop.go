package yasocket

import (
	"context"
	"sync"
)

// eventLoop runs posted tasks one after another on a single goroutine.
// Posting never blocks: the queue grows as needed.
type eventLoop struct {
	mu      sync.Mutex
	tasks   []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// post queues task and reports whether the loop accepted it.
func (l *eventLoop) post(task func()) bool {
	l.mu.Lock()

	if l.stopped {
		l.mu.Unlock()

		return false
	}

	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return true
}

// stop drops every queued task and makes run return after the current task.
func (l *eventLoop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.tasks = nil
	l.mu.Unlock()
}

// run executes tasks until stop is called or ctx is done.
func (l *eventLoop) run(ctx context.Context) {
	defer close(l.done)
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, ok, stopped := l.next()

		if stopped {
			return
		}

		if ok {
			task()

			continue
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return
		}
	}
}

func (l *eventLoop) next() (func(), bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return nil, false, true
	}

	if len(l.tasks) == 0 {
		return nil, false, false
	}

	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]

	return task, true, false
}
