package cp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/golang/glog"
)

// killGrace is how long a subprocess may outlive its own time limit before it is killed
const killGrace = 5 * time.Second

type externalSolver struct {
	command []string
}

// NewExternalSolver returns a solver that speaks the request/response text protocol with a
// subprocess, e.g. "cpsolve" or "python3 pcmax_cp_sat_solver.py"
func NewExternalSolver(command string) (Solver, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("an external solver command must be specified")
	}
	return &externalSolver{command: fields}, nil
}

func (solver *externalSolver) Solve(ctx context.Context, model Model, timeLimit time.Duration) (Result, error) {
	if timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeLimit+killGrace)
		defer cancel()
	}

	request := Request{Model: model, TimeLimit: timeLimit}
	cmd := exec.CommandContext(ctx, solver.command[0], solver.command[1:]...)
	cmd.Stdin = strings.NewReader(request.String())
	cmd.WaitDelay = time.Second // Do not wait on orphaned children holding the pipes
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return Result{Status: Timeout}, nil
	} else if err != nil {
		log.Warningf("%v failed: %v", solver.command[0], stderr.String())
		return Result{}, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.command[0], err, stderr.String())
	}

	result, err := ParseResponse(&stdOut)
	if err != nil {
		return Result{}, fmt.Errorf("invalid response from %v: %w", solver.command[0], err)
	}
	if err := result.check(model); err != nil {
		return Result{}, fmt.Errorf("invalid response from %v: %w", solver.command[0], err)
	}
	return result, nil
}
