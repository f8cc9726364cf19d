package session

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Task.Result before the task completed
var ErrPending = errors.New("task still running")

// Task is the eventual result of a background operation. It is completed
// exactly once, after the session state reflects the outcome.
type Task[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func failedTask[T any](err error) *Task[T] {
	t := newTask[T]()
	var zero T
	t.complete(zero, err)
	return t
}

func (t *Task[T]) complete(val T, err error) {
	t.once.Do(func() {
		t.val = val
		t.err = err
		close(t.done)
	})
}

// Done is closed when the task completed
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completed or ctx is done
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking
func (t *Task[T]) Result() (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	default:
		var zero T
		return zero, ErrPending
	}
}
