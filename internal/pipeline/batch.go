package pipeline

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ProgressFunc is called as users finish. current is the number processed so
// far, total is the batch size.
type ProgressFunc func(current, total int)

// UserOutcome is one user's result within a batch.
type UserOutcome struct {
	User   string
	Result *Result
	Err    error
}

// BatchResult holds the output of RecomputeAll.
type BatchResult struct {
	Outcomes  []UserOutcome // in input order
	Computed  int
	CacheHits int
	Failed    int
	Elapsed   time.Duration
}

// RecomputeAll plans every user on a bounded worker pool. Each run gets its
// own timeout when runTimeout > 0. Failures are recorded per user; the batch
// itself only fails when ctx is cancelled before it finishes.
func (p *Planner) RecomputeAll(ctx context.Context, users []string, runTimeout time.Duration, progressFn ProgressFunc) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{Outcomes: make([]UserOutcome, len(users))}
	if len(users) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(users) {
		numWorkers = len(users)
	}

	work := make(chan int, len(users))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range users {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				result.Outcomes[idx] = p.recomputeOne(ctx, users[idx], runTimeout)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(users))
				}
			}
		}()
	}

	wg.Wait()

	for _, o := range result.Outcomes {
		switch {
		case o.Err != nil:
			result.Failed++
		case o.Result.Cached:
			result.CacheHits++
		default:
			result.Computed++
		}
	}
	result.Elapsed = time.Since(start)
	return result, ctx.Err()
}

func (p *Planner) recomputeOne(ctx context.Context, user string, runTimeout time.Duration) UserOutcome {
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}
	res, err := p.PlanFor(ctx, user)
	return UserOutcome{User: user, Result: res, Err: err}
}
