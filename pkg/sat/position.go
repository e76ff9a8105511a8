package sat

// PositionVars maps (job, machine), both 0-based, to the variable meaning "job runs on machine".
// A missing pair means the job cannot go on that machine.
type PositionVars map[[2]int]int64

// NewPositionVars allocates one variable per (job, machine) pair, job-major
func NewPositionVars(jobs, machines int, allocator *Allocator) PositionVars {
	positionVars := make(PositionVars, jobs*machines)
	for job := 0; job < jobs; job++ {
		for machine, id := range allocator.Allocate(machines) {
			positionVars[[2]int{job, machine}] = id
		}
	}
	return positionVars
}

func (positionVars PositionVars) Var(job, machine int) (int64, bool) {
	id, ok := positionVars[[2]int{job, machine}]
	return id, ok
}

// WeightedLiterals returns the literals of the jobs that can run on machine, in job order,
// weighted by their sizes
func (positionVars PositionVars) WeightedLiterals(machine int, weights []int) []WeightedLiteral {
	literals := make([]WeightedLiteral, 0, len(weights))
	for job, weight := range weights {
		if id, ok := positionVars.Var(job, machine); ok {
			literals = append(literals, WeightedLiteral{Var: id, Weight: weight})
		}
	}
	return literals
}

// OneHot returns, for each job, an at-least-one clause over its machines and a pairwise
// at-most-one clause for every pair of them
func (positionVars PositionVars) OneHot(jobs, machines int) [][]int64 {
	clauses := make([][]int64, 0)
	for job := 0; job < jobs; job++ {
		row := make([]int64, 0, machines)
		for machine := 0; machine < machines; machine++ {
			if id, ok := positionVars.Var(job, machine); ok {
				row = append(row, id)
			}
		}

		clauses = append(clauses, row)
		for i := 0; i < len(row); i++ {
			for j := i + 1; j < len(row); j++ {
				clauses = append(clauses, []int64{-row[i], -row[j]})
			}
		}
	}
	return clauses
}
