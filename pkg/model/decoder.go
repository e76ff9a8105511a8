package model

import (
	"fmt"

	"github.com/limaJavier/makespan/pkg/sat"
	"github.com/samber/lo"
)

// DecodeMachines places the jobs of every machine back to back from time 0, in job order
func DecodeMachines(instance Instance, machines []int) (Assignment, error) {
	if len(machines) != instance.Jobs() {
		return Assignment{}, fmt.Errorf("expected a machine for each of the %d jobs, got %d", instance.Jobs(), len(machines))
	}

	assignment := Assignment{Machines: append([]int{}, machines...), Starts: make([]int, instance.Jobs())}
	ends := make([]int, instance.Machines())
	for job, machine := range machines {
		if machine < 0 || machine >= instance.Machines() {
			return Assignment{}, fmt.Errorf("job %d is assigned to machine %d, outside [0, %d)", job+1, machine, instance.Machines())
		}
		assignment.Starts[job] = ends[machine]
		ends[machine] += instance.Size(job)
	}
	return assignment, nil
}

// DecodeSAT reads the machine of every job from the true position variables of a model
func DecodeSAT(instance Instance, positionVars sat.PositionVars, solution sat.SATSolution) (Assignment, error) {
	positives := lo.SliceToMap(lo.Filter(solution, func(literal int64, _ int) bool { return literal > 0 }),
		func(literal int64) (int64, bool) { return literal, true })

	machines := make([]int, instance.Jobs())
	for job := range machines {
		chosen := lo.Filter(lo.Range(instance.Machines()), func(machine int, _ int) bool {
			id, ok := positionVars.Var(job, machine)
			return ok && positives[id]
		})
		if len(chosen) != 1 {
			return Assignment{}, fmt.Errorf("job %d must be on exactly one machine, the model places it on %v", job+1, lo.Map(chosen, func(machine int, _ int) int { return machine + 1 }))
		}
		machines[job] = chosen[0]
	}
	return DecodeMachines(instance, machines)
}
