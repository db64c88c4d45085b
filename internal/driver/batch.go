package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/peterkuimelis/tftx/internal/game"
)

// Summary aggregates a batch of self-play matches.
type Summary struct {
	Games      int                  `json:"games"`
	Wins       map[game.AgentID]int `json:"wins"`
	Draws      int                  `json:"draws"`
	Truncated  int                  `json:"truncated"`
	MeanRounds float64              `json:"mean_rounds"`
	MeanSteps  float64              `json:"mean_steps"`
	Results    []Result             `json:"-"`
}

// RunBatch plays n random self-play matches on a pool of workers. Game i
// is seeded with seed+i, so the summary does not depend on the number of
// workers.
func RunBatch(ctx context.Context, cfg game.Config, seed int64, n, workers int) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if n < 0 {
		return Summary{}, fmt.Errorf("negative game count %d", n)
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, n)
	var (
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				m := Match{Config: cfg, Seed: seed + int64(i)}
				r, err := m.Run(ctx)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("game %d (seed %d): %w", i, m.Seed, err)
					}
					mu.Unlock()
					cancel()
					continue
				}
				results[i] = r
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return Summary{}, firstErr
	}
	return summarize(results), nil
}

func summarize(results []Result) Summary {
	s := Summary{Games: len(results), Wins: make(map[game.AgentID]int), Results: results}
	if len(results) == 0 {
		return s
	}
	rounds, steps := 0, 0
	for _, r := range results {
		switch {
		case r.Truncated:
			s.Truncated++
		case r.Winner == "":
			s.Draws++
		default:
			s.Wins[r.Winner]++
		}
		rounds += r.Rounds
		steps += r.Steps
	}
	s.MeanRounds = float64(rounds) / float64(len(results))
	s.MeanSteps = float64(steps) / float64(len(results))
	return s
}
