package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/samber/lo"
)

// parseSolution collects the literals of the "v" lines of a competition-format output
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.Reduce(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(values []string, line string, _ int) []string {
			return append(values, strings.Fields(line[1:])...)
		},
		[]string{},
	)
	return parseLiterals(fields)
}

// parseLiterals reads signed literals up to the terminating 0
func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, valueStr := range fields {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		} else if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}

// runSolver runs a solver process following the exit-code convention of SAT competitions:
// 10 stands for satisfiable and 20 for unsatisfiable. A process killed because ctx expired is
// reported as Timeout.
func runSolver(ctx context.Context, name string, cmd *exec.Cmd) (string, Status, error) {
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", Timeout, nil
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", 0, fmt.Errorf("cannot start %v: %w", name, err)
	}
	switch cmd.ProcessState.ExitCode() {
	case 10:
		return stdOut.String(), Satisfiable, nil
	case 20:
		return "", Unsatisfiable, nil
	default:
		log.Warningf("%v exited with code %d: %v", name, cmd.ProcessState.ExitCode(), stderr.String())
		return "", 0, fmt.Errorf("an error occurred during %v execution: %v : %v", name, err, stderr.String())
	}
}
