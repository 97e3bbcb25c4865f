// Package advisor builds recommendations on top of the engine: strategy
// rankings, what-if scenarios for larger payments, and goal tracking.
package advisor

import (
	"sync"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
)

type outcome struct {
	plan *model.PaymentPlan
	err  error
}

// simulateAll runs every request on its own goroutine. Runs share no state,
// so results are collected by index.
func simulateAll(e *engine.Engine, reqs []engine.Request) []outcome {
	out := make([]outcome, len(reqs))
	var wg sync.WaitGroup
	wg.Add(len(reqs))
	for i := range reqs {
		go func(i int) {
			defer wg.Done()
			plan, err := e.Simulate(reqs[i])
			out[i] = outcome{plan: plan, err: err}
		}(i)
	}
	wg.Wait()
	return out
}
