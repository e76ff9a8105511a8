package sat

import (
	"context"
	"os/exec"
	"strings"
)

// streamSolver feeds the instance through the standard input of a solver that prints its model
// on "v" lines
type streamSolver struct {
	name string
	path string
	args []string
}

func NewKissatSolver(path string) SATSolver {
	return &streamSolver{name: "kissat", path: path, args: []string{"-q", "--relaxed"}}
}

func NewCadicalSolver(path string) SATSolver {
	return &streamSolver{name: "cadical", path: path, args: []string{"-q"}}
}

func (solver *streamSolver) Solve(ctx context.Context, sat SAT) (SATSolution, Status, error) {
	cmd := exec.CommandContext(ctx, solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(sat.ToDIMACS()) // Feed the DIMACS-CNF into the solver's standard input

	output, status, err := runSolver(ctx, solver.name, cmd)
	if err != nil || status != Satisfiable {
		return nil, status, err
	}

	solution, err := parseSolution(output)
	if err != nil {
		return nil, 0, err
	}
	return solution, Satisfiable, nil
}
