// Package settle runs independent tasks concurrently and waits for every one of them.
package settle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one task.
type Result[T any] struct {
	Value T
	Err   error
}

// Task is a unit of work joined by All.
type Task[T any] func(ctx context.Context) (T, error)

// All runs tasks concurrently and returns their results in task order.
// A failing or panicking task never cancels the others.
func All[T any](ctx context.Context, tasks ...Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result[T]{Err: fmt.Errorf("task %d panicked: %v", i, r)}
				}
			}()
			v, taskErr := task(ctx)
			results[i] = Result[T]{Value: v, Err: taskErr}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
