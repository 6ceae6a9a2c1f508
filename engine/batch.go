package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Matchup is one battle to run: the champions to load and the Config to
// load them under.
type Matchup struct {
	Specs []ChampionSpec
	Config Config
}

// MatchResult is the outcome of one Matchup: the winning champion id (nil
// for a draw) and the final Stats at the moment the battle ended.
type MatchResult struct {
	Winner *int
	Stats  Stats
}

// RunBatch runs every Matchup to completion concurrently, bounded by
// concurrency simultaneous battles (concurrency <= 0 means unbounded),
// and returns one MatchResult per input Matchup in input order. It
// exists for the same reason the original implementation's Criterion
// benchmarks did: running many independent battles back to back to
// compare champions or measure throughput, generalized here to run them
// in parallel since each Engine is a self-contained value with no
// shared state.
//
// Grounded on the teacher's worker-pool style (nes console Step loop run
// across goroutines is not part of the teacher repo itself, but
// errgroup.WithContext is the pattern the rest of the example pack uses
// for fan-out-and-collect with first-error cancellation).
func RunBatch(ctx context.Context, matchups []Matchup, concurrency int) ([]MatchResult, error) {
	results := make([]MatchResult, len(matchups))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, m := range matchups {
		i, m := i, m
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			eng := New(m.Config)
			if err := eng.Load(m.Specs); err != nil {
				return newLoadError(0, "batch matchup load failed", err)
			}

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				running, err := eng.Tick()
				if err != nil {
					return err
				}
				if !running {
					break
				}
			}

			results[i] = MatchResult{Winner: eng.Winner(), Stats: eng.Stat()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
