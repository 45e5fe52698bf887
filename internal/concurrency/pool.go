package concurrency

import (
	"context"
	"sync"
)

// WorkerFn handles task i.
type WorkerFn func(ctx context.Context, i int)

// ForEach fans tasks out over at most workers goroutines and waits for
// completion. Stops feeding new tasks once the context is done.
func ForEach(ctx context.Context, workers, tasks int, fn WorkerFn) {
	if tasks <= 0 {
		return
	}
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}

	in := make(chan int)
	go func() {
		defer close(in)
		for i := 0; i < tasks; i++ {
			select {
			case in <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range in {
				fn(ctx, i)
			}
		}()
	}
	wg.Wait()
}
