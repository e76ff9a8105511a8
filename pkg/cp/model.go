package cp

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Model minimises the makespan of assigning jobs to identical machines:
// one Boolean per (job, machine), exactly one per job, the weighted sum of every machine at most
// the objective, and the objective within [Lower, Upper].
type Model struct {
	Jobs     int
	Machines int
	Weights  []int
	Lower    int
	Upper    int
}

func Build(jobs, machines int, weights []int, lower, upper int) (Model, error) {
	if jobs < 1 || machines < 1 {
		return Model{}, fmt.Errorf("job and machine counts must be positive: %d %d", jobs, machines)
	} else if len(weights) != jobs {
		return Model{}, fmt.Errorf("expected %d weights, got %d", jobs, len(weights))
	} else if lo.SomeBy(weights, func(weight int) bool { return weight < 1 }) {
		return Model{}, fmt.Errorf("weights must be positive: %v", weights)
	} else if lower < 0 || lower > upper {
		return Model{}, fmt.Errorf("invalid objective domain [%d, %d]", lower, upper)
	}
	return Model{Jobs: jobs, Machines: machines, Weights: append([]int{}, weights...), Lower: lower, Upper: upper}, nil
}

// Var numbers the decision variable of (job, machine) from 1, job-major
func (model Model) Var(job, machine int) int {
	return job*model.Machines + machine + 1
}

type Status int

const (
	Optimal Status = iota
	Infeasible
	Timeout
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "unsatisfiable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(status))
	}
}

// Result of a solve. Objective and Machines (0-based, one per job) are only set when Optimal
type Result struct {
	Status    Status
	Objective int
	Machines  []int
}

// Solver searches a model. A search cut short by timeLimit or ctx is a Timeout, never Infeasible
type Solver interface {
	Solve(ctx context.Context, model Model, timeLimit time.Duration) (Result, error)
}

// check makes sure an optimal result is consistent with the model it claims to solve
func (result Result) check(model Model) error {
	if result.Status != Optimal {
		return nil
	}
	if len(result.Machines) != model.Jobs {
		return fmt.Errorf("expected a machine for each of the %d jobs, got %d", model.Jobs, len(result.Machines))
	}
	loads := make([]int, model.Machines)
	for job, machine := range result.Machines {
		if machine < 0 || machine >= model.Machines {
			return fmt.Errorf("job %d is assigned to machine %d, outside [0, %d)", job, machine, model.Machines)
		}
		loads[machine] += model.Weights[job]
	}
	if result.Objective < model.Lower || result.Objective > model.Upper {
		return fmt.Errorf("objective %d is outside [%d, %d]", result.Objective, model.Lower, model.Upper)
	}
	if makespan := lo.Max(loads); makespan > result.Objective {
		return fmt.Errorf("assignment reaches %d, above the objective %d", makespan, result.Objective)
	}
	return nil
}
