package model

import (
	"context"
	"fmt"
	"strings"
)

type Scheduler interface {
	Build(
		ctx context.Context,
		instance Instance,
	) (Result, error)

	Verify(
		instance Instance,
		result Result,
	) error
}

// Result of a makespan search. Assignment always holds a schedule with makespan Cmax; Proven
// tells whether Cmax is optimal or the search ran out of time first.
type Result struct {
	Cmax       int
	Assignment Assignment
	Proven     bool
	// Lower and Upper are the bounds the search ended with
	Lower int
	Upper int
	// Variables and Clauses describe the largest instance handed to the solver
	Variables uint64
	Clauses   uint64
	// Calls counts the solver invocations
	Calls int
}

// Stepping picks the next makespan to try while Lower < Upper
type Stepping int

const (
	// Linear always tries Upper-1
	Linear Stepping = iota
	// Binary tries the middle of [Lower, Upper-1]
	Binary
)

func (stepping Stepping) String() string {
	switch stepping {
	case Linear:
		return "linear"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("stepping(%d)", int(stepping))
	}
}

func ParseStepping(name string) (Stepping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return Linear, nil
	case "binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("%v is not a valid stepping", name)
	}
}

func (stepping Stepping) next(lower, upper int) int {
	if stepping == Binary {
		return lower + (upper-1-lower)/2
	}
	return upper - 1
}

// verifyResult checks the schedule of a result against its claimed makespan
func verifyResult(instance Instance, result Result) error {
	if _, err := Validate(instance, result.Cmax, result.Assignment); err != nil {
		return err
	}
	if result.Cmax < result.Lower {
		return fmt.Errorf("makespan %d is below the proven lower bound %d", result.Cmax, result.Lower)
	}
	return nil
}
