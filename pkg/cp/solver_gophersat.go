package cp

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process pseudo-Boolean optimiser. The objective is binary
// encoded: objective = Lower + sum(2^i * b_i), with the sum capped at Upper-Lower.
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, model Model, timeLimit time.Duration) (Result, error) {
	if timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeLimit)
		defer cancel()
	}

	if ctx.Err() != nil {
		return Result{Status: Timeout}, nil
	}

	problem := solver.ParsePBConstrs(constraints(model))
	if width := objectiveBits(model); width > 0 {
		objectiveLits := lo.Times(width, func(i int) solver.Lit {
			return solver.Var(int32(objectiveVar(model, i) - 1)).Lit()
		})
		problem.SetCostFunc(objectiveLits, powers(width))
	}

	stop := make(chan struct{})
	done := make(chan solver.Result, 1)
	go func() {
		done <- solver.New(problem).Optimal(nil, stop)
	}()

	var res solver.Result
	select {
	case res = <-done:
	case <-ctx.Done():
		// The first search ignores stop, so the goroutine is left to finish on its own
		close(stop)
		return Result{Status: Timeout}, nil
	}

	switch res.Status {
	case solver.Unsat:
		return Result{Status: Infeasible}, nil
	case solver.Sat:
		result := Result{Status: Optimal, Objective: model.Lower + res.Weight, Machines: make([]int, model.Jobs)}
		for job := range result.Machines {
			result.Machines[job] = -1
			for machine := 0; machine < model.Machines; machine++ {
				if res.Model[model.Var(job, machine)-1] {
					result.Machines[job] = machine
					break
				}
			}
		}
		if err := result.check(model); err != nil {
			return Result{}, fmt.Errorf("gophersat returned an inconsistent model: %w", err)
		}
		return result, nil
	default:
		return Result{Status: Timeout}, nil
	}
}

// objectiveBits is the number of bits needed for objective-Lower
func objectiveBits(model Model) int {
	return bits.Len(uint(model.Upper - model.Lower))
}

// objectiveVar numbers bit i of objective-Lower after the decision variables
func objectiveVar(model Model, i int) int {
	return model.Jobs*model.Machines + i + 1
}

func constraints(model Model) []solver.PBConstr {
	width := objectiveBits(model)
	constrs := make([]solver.PBConstr, 0, 2*model.Jobs+model.Machines+1)

	//** Exactly one machine per job
	for job := 0; job < model.Jobs; job++ {
		row := make([]int, model.Machines)
		for machine := range row {
			row[machine] = model.Var(job, machine)
		}
		constrs = append(constrs, solver.GtEq(append([]int{}, row...), ones(len(row)), 1))
		constrs = append(constrs, solver.GtEq(append([]int{}, row...), lo.RepeatBy(len(row), func(int) int { return -1 }), -1))
	}

	//** Lower + sum(2^i * b_i) <= Upper
	if width > 0 {
		bitVars := lo.Times(width, func(i int) int { return objectiveVar(model, i) })
		negated := lo.Map(powers(width), func(power int, _ int) int { return -power })
		constrs = append(constrs, solver.GtEq(bitVars, negated, model.Lower-model.Upper))
	}

	//** sum(w * x) <= Lower + sum(2^i * b_i) for every machine
	for machine := 0; machine < model.Machines; machine++ {
		lits := lo.Times(width, func(i int) int { return objectiveVar(model, i) })
		weights := powers(width)
		for job := 0; job < model.Jobs; job++ {
			lits = append(lits, model.Var(job, machine))
			weights = append(weights, -model.Weights[job])
		}
		constrs = append(constrs, solver.GtEq(lits, weights, -model.Lower))
	}

	return constrs
}

func ones(count int) []int {
	return lo.RepeatBy(count, func(int) int { return 1 })
}

// powers returns 1, 2, 4, ... with count elements
func powers(count int) []int {
	return lo.Times(count, func(i int) int { return 1 << i })
}
