package model

import (
	"context"
	"time"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/cp"
)

type cpScheduler struct {
	solver    cp.Solver
	timeLimit time.Duration
}

// NewCPScheduler searches [Lower, Upper-1] with a single optimisation model
func NewCPScheduler(solver cp.Solver, timeLimit time.Duration) Scheduler {
	return &cpScheduler{
		solver:    solver,
		timeLimit: timeLimit,
	}
}

func (scheduler *cpScheduler) Build(ctx context.Context, instance Instance) (Result, error) {
	bounds := ComputeBounds(instance)
	result := Result{
		Cmax:       bounds.Upper,
		Assignment: bounds.Schedule,
		Lower:      bounds.Lower,
		Upper:      bounds.Upper,
		Proven:     bounds.Lower == bounds.Upper,
	}
	if result.Proven {
		return result, nil
	}

	model, err := cp.Build(instance.Jobs(), instance.Machines(), instance.sizes, bounds.Lower, bounds.Upper-1)
	if err != nil {
		return Result{}, err
	}
	result.Variables = uint64(model.Jobs*model.Machines + 1)
	result.Clauses = uint64(model.Jobs + model.Machines)

	solution, err := scheduler.solver.Solve(ctx, model, scheduler.timeLimit)
	if err != nil {
		return Result{}, err
	}
	result.Calls++
	log.V(1).Infof("model over [%d, %d] is %v", model.Lower, model.Upper, solution.Status)

	switch solution.Status {
	case cp.Infeasible:
		// Nothing beats the LPT schedule
		result.Lower = result.Upper
		result.Proven = true
	case cp.Optimal:
		assignment, err := DecodeMachines(instance, solution.Machines)
		if err != nil {
			return Result{}, err
		}
		result.Assignment = assignment
		result.Cmax = assignment.Makespan(instance)
		result.Lower, result.Upper = result.Cmax, result.Cmax
		result.Proven = true
	}
	return result, nil
}

func (scheduler *cpScheduler) Verify(instance Instance, result Result) error {
	return verifyResult(instance, result)
}
