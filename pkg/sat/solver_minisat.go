package sat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{path: path}
}

func (solver *minisatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, Status, error) {
	// Minisat reads the instance from a file and writes its model to another one
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(inputTempFile.Name())

	outputTempFile, err := os.CreateTemp("", "minisat_output-*.cnf")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	outputTempFile.Close()
	defer os.Remove(outputTempFile.Name())

	if _, err := inputTempFile.WriteString(sat.ToDIMACS()); err != nil {
		return nil, 0, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, solver.path, "-verb=0", inputTempFile.Name(), outputTempFile.Name())
	_, status, err := runSolver(ctx, "minisat", cmd)
	if err != nil || status != Satisfiable {
		return nil, status, err
	}

	output, err := os.ReadFile(outputTempFile.Name())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read output file: %w", err)
	}
	return solver.parseSolution(string(output))
}

// parseSolution reads the output file: a "SAT" header followed by the model line
func (solver *minisatSolver) parseSolution(solverOutput string) (SATSolution, Status, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, 0, fmt.Errorf("unexpected minisat output: %q", solverOutput)
	}
	solution, err := parseLiterals(strings.Fields(lines[1]))
	if err != nil {
		return nil, 0, err
	}
	return solution, Satisfiable, nil
}
