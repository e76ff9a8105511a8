package model

import (
	"slices"

	"github.com/samber/lo"
)

// Bounds brackets the optimal makespan: Lower <= OPT <= Upper, where Upper is the makespan of
// the LPT schedule kept in Schedule
type Bounds struct {
	Lower    int
	Upper    int
	Schedule Assignment
}

func ComputeBounds(instance Instance) Bounds {
	machines, makespan := longestProcessingTime(instance)
	schedule, _ := DecodeMachines(instance, machines)

	lower := max(
		pigeonHoleBound(instance),
		maxJobSizeBound(instance),
		middleJobsBound(instance),
		makespan*3/4+1, // LPT is never worse than 4/3 of the optimum
	)
	return Bounds{Lower: min(lower, makespan), Upper: makespan, Schedule: schedule}
}

// pigeonHoleBound is the average load rounded up
func pigeonHoleBound(instance Instance) int {
	total := instance.TotalSize()
	return (total + instance.Machines() - 1) / instance.Machines()
}

func maxJobSizeBound(instance Instance) int {
	return lo.Max(instance.sizes)
}

// middleJobsBound: among the m+1 largest jobs two share a machine
func middleJobsBound(instance Instance) int {
	m := instance.Machines()
	if instance.Jobs() <= m+1 {
		return 0
	}
	sizes := descending(instance.sizes)
	return sizes[m-1] + sizes[m]
}

// longestProcessingTime puts the jobs, largest first, on the least loaded machine
func longestProcessingTime(instance Instance) ([]int, int) {
	jobs := lo.Range(instance.Jobs())
	slices.SortStableFunc(jobs, func(a, b int) int { return instance.Size(b) - instance.Size(a) })

	machines := make([]int, instance.Jobs())
	loads := make([]int, instance.Machines())
	for _, job := range jobs {
		emptiest := 0
		for machine, load := range loads {
			if load < loads[emptiest] {
				emptiest = machine
			}
		}
		loads[emptiest] += instance.Size(job)
		machines[job] = emptiest
	}
	return machines, lo.Max(loads)
}

func descending(values []int) []int {
	sorted := append([]int{}, values...)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	return sorted
}
