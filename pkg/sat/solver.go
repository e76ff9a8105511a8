package sat

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type Status int

const (
	Satisfiable Status = iota
	Unsatisfiable
	Timeout
)

func (status Status) String() string {
	switch status {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(status))
	}
}

// SATSolver decides a CNF instance. The solution is only set when the status is Satisfiable;
// a Timeout (the context expired first) says nothing about satisfiability.
type SATSolver interface {
	Solve(ctx context.Context, sat SAT) (SATSolution, Status, error)
}

var solvers = map[string]func(Config) SATSolver{
	"gini":    func(Config) SATSolver { return NewGiniSolver() },
	"kissat":  func(config Config) SATSolver { return NewKissatSolver(config.KissatPath) },
	"cadical": func(config Config) SATSolver { return NewCadicalSolver(config.CadicalPath) },
	"minisat": func(config Config) SATSolver { return NewMinisatSolver(config.MinisatPath) },
}

// Solvers lists the names accepted by NewSolver
func Solvers() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

func NewSolver(name string, config Config) (SATSolver, error) {
	constructor, ok := solvers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver", name)
	}
	return constructor(config), nil
}
