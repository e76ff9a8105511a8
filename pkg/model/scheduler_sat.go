package model

import (
	"context"
	"fmt"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/sat"
)

// Decision is the answer to "is there a schedule with makespan <= Cmax?"
type Decision struct {
	Status     sat.Status
	Assignment Assignment
	Variables  uint64
	Clauses    uint64
}

type satScheduler struct {
	solver   sat.SATSolver
	strategy sat.Strategy
	stepping Stepping
	opts     sat.Options
}

func NewSATScheduler(solver sat.SATSolver, strategy sat.Strategy, stepping Stepping, opts sat.Options) Scheduler {
	return &satScheduler{
		solver:   solver,
		strategy: strategy,
		stepping: stepping,
		opts:     opts,
	}
}

// CompileDecision encodes "every machine carries at most cmax": one position variable per
// (job, machine), exactly one machine per job and a weighted at-most constraint per machine
func CompileDecision(ctx context.Context, instance Instance, cmax int, strategy sat.Strategy, opts sat.Options) (sat.SAT, sat.PositionVars, error) {
	if cmax < 0 {
		return sat.SAT{}, nil, fmt.Errorf("makespan bound must be non-negative: %d", cmax)
	}

	allocator := sat.NewAllocator(1)
	positionVars := sat.NewPositionVars(instance.Jobs(), instance.Machines(), allocator)

	literalSets := make([][]sat.WeightedLiteral, instance.Machines())
	for machine := range literalSets {
		literalSets[machine] = positionVars.WeightedLiterals(machine, instance.sizes)
	}
	loadClauses, err := sat.EncodeMachines(ctx, strategy, literalSets, cmax, allocator, opts)
	if err != nil {
		return sat.SAT{}, nil, err
	}

	clauses := positionVars.OneHot(instance.Jobs(), instance.Machines())
	return sat.SAT{
		Variables: uint64(allocator.Last()),
		Clauses:   append(clauses, loadClauses...),
	}, positionVars, nil
}

// Decide compiles and solves the decision problem for cmax
func Decide(ctx context.Context, solver sat.SATSolver, instance Instance, cmax int, strategy sat.Strategy, opts sat.Options) (Decision, error) {
	satInstance, positionVars, err := CompileDecision(ctx, instance, cmax, strategy, opts)
	if err != nil {
		if ctx.Err() != nil {
			return Decision{Status: sat.Timeout}, nil
		}
		return Decision{}, err
	}

	decision := Decision{Variables: satInstance.Variables, Clauses: uint64(len(satInstance.Clauses))}
	solution, status, err := solver.Solve(ctx, satInstance)
	if err != nil {
		return Decision{}, err
	}
	decision.Status = status
	if status != sat.Satisfiable {
		return decision, nil
	}

	assignment, err := DecodeSAT(instance, positionVars, solution)
	if err != nil {
		return Decision{}, fmt.Errorf("cannot decode solution: %w", err)
	}
	if makespan := assignment.Makespan(instance); makespan > cmax {
		return Decision{}, fmt.Errorf("decoded schedule ends at %d, above the bound %d", makespan, cmax)
	}
	decision.Assignment = assignment
	return decision, nil
}

func (scheduler *satScheduler) Build(ctx context.Context, instance Instance) (Result, error) {
	//** Start from the LPT schedule and the lower bounds
	bounds := ComputeBounds(instance)
	result := Result{
		Cmax:       bounds.Upper,
		Assignment: bounds.Schedule,
		Lower:      bounds.Lower,
		Upper:      bounds.Upper,
	}
	log.V(1).Infof("initial bounds [%d, %d]", result.Lower, result.Upper)

	//** Tighten until the bounds meet
	for result.Lower < result.Upper {
		target := scheduler.stepping.next(result.Lower, result.Upper)
		decision, err := Decide(ctx, scheduler.solver, instance, target, scheduler.strategy, scheduler.opts)
		if err != nil {
			return Result{}, err
		}
		result.Calls++
		result.Variables = max(result.Variables, decision.Variables)
		result.Clauses = max(result.Clauses, decision.Clauses)

		switch decision.Status {
		case sat.Unsatisfiable:
			result.Lower = target + 1
		case sat.Satisfiable:
			result.Assignment = decision.Assignment
			result.Upper = decision.Assignment.Makespan(instance)
			result.Cmax = result.Upper
		case sat.Timeout:
			log.V(1).Infof("timeout at Cmax=%d, best known %d", target, result.Upper)
			return result, nil
		}
		log.V(1).Infof("Cmax=%d is %v, bounds [%d, %d]", target, decision.Status, result.Lower, result.Upper)
	}

	result.Proven = true
	return result, nil
}

func (scheduler *satScheduler) Verify(instance Instance, result Result) error {
	return verifyResult(instance, result)
}
