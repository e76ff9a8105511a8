package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const giniPollInterval = 5 * time.Millisecond

type giniSolver struct{}

// NewGiniSolver returns an in-process solver, usable where no external binary is installed
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, Status, error) {
	g := gini.New()
	var maxVar int64
	for _, clause := range sat.Clauses {
		if len(clause) == 0 {
			return nil, Unsatisfiable, nil
		}
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
			maxVar = max(maxVar, literal, -literal)
		}
		g.Add(z.LitNull) // Close the clause
	}

	var result int
	if ctx.Done() == nil {
		result = g.Solve() // Nothing can cancel the search
	} else {
		var err error
		result, err = solveUntilDone(ctx, g)
		if err != nil {
			return nil, Timeout, nil
		}
	}
	switch result {
	case -1:
		return nil, Unsatisfiable, nil
	case 0:
		return nil, Timeout, nil
	}

	solution := make(SATSolution, 0, sat.Variables)
	for variable := int64(1); variable <= int64(sat.Variables); variable++ {
		if variable <= maxVar && g.Value(z.Dimacs2Lit(int(variable))) {
			solution = append(solution, variable)
		} else {
			solution = append(solution, -variable)
		}
	}
	return solution, Satisfiable, nil
}

// solveUntilDone runs the search in the background and stops it when ctx expires
func solveUntilDone(ctx context.Context, g *gini.Gini) (int, error) {
	solve := g.GoSolve()
	ticker := time.NewTicker(giniPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			solve.Stop()
			return 0, ctx.Err()
		case <-ticker.C:
			if result, finished := solve.Test(); finished {
				return result, nil
			}
		}
	}
}
