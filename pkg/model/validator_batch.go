package model

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Candidate is a claimed solution awaiting validation
type Candidate struct {
	Name       string
	Instance   Instance
	Cmax       int
	Assignment Assignment
}

type Verdict struct {
	Name string
	Grid Grid
	// Err is nil for a valid and tight schedule, see Validate
	Err error
}

// ValidateAll validates the candidates concurrently, with at most workers at once (<= 0 means
// unlimited). Verdicts keep the order of the candidates.
func ValidateAll(ctx context.Context, candidates []Candidate, workers int) ([]Verdict, error) {
	verdicts := make([]Verdict, len(candidates))
	group, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}
	for i, candidate := range candidates {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			grid, err := Validate(candidate.Instance, candidate.Cmax, candidate.Assignment)
			verdicts[i] = Verdict{Name: candidate.Name, Grid: grid, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}
