package textprobe

import (
	"context"
	"runtime"
	"sync"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps automatic sizing; rendering is CPU bound and files are
	// usually small.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the caller and the GC.
	cpuDivisor = 2
)

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// runOrdered calls fn for every index in [0, n) on at most workers
// goroutines and stores each result at its index. Jobs left when ctx is
// cancelled get ctx.Err().
func runOrdered[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	results := make([]T, n)
	errs := make([]error, n)
	if n == 0 {
		return results, errs
	}

	concurrency := min(workers, n)
	jobs := make(chan int, n)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					continue
				}
				results[idx], errs[idx] = fn(ctx, idx)
			}
		}()
	}

	for i := range n {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results, errs
}
