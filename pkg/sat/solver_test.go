package sat

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three pigeons cannot sit in two holes; variable 2p+h+1 puts pigeon p in hole h
var pigeonHole = SAT{
	Variables: 6,
	Clauses: [][]int64{
		{1, 2}, {3, 4}, {5, 6},
		{-1, -3}, {-1, -5}, {-3, -5},
		{-2, -4}, {-2, -6}, {-4, -6},
	},
}

var chain = SAT{
	Variables: 4,
	Clauses: [][]int64{
		{1, 2}, {-1, 2}, {-2, 3}, {-3, -4}, {4, -1},
	},
}

func TestGini(t *testing.T) {
	solver := NewGiniSolver()
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
	t.Run("Expired context", func(t *testing.T) {
		//** Arrange
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		//** Act
		solution, status, err := solver.Solve(ctx, pigeonHole)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Timeout, status)
		assert.Nil(t, solution)
	})
	t.Run("Empty clause", func(t *testing.T) {
		_, status, err := solver.Solve(context.Background(), SAT{Variables: 1, Clauses: [][]int64{{1}, {}}})
		require.NoError(t, err)
		assert.Equal(t, Unsatisfiable, status)
	})
}

func TestKissat(t *testing.T) {
	solver := NewKissatSolver(lookPath(t, "kissat"))
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestCadical(t *testing.T) {
	solver := NewCadicalSolver(lookPath(t, "cadical"))
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestMinisat(t *testing.T) {
	solver := NewMinisatSolver(lookPath(t, "minisat"))
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, solver)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestNewSolver(t *testing.T) {
	config := DefaultConfig()
	for _, name := range Solvers() {
		solver, err := NewSolver(name, config)
		require.NoError(t, err)
		assert.NotNil(t, solver)
	}

	_, err := NewSolver("glucose", config)
	assert.Error(t, err)
}

func TestParseSolution(t *testing.T) {
	//** Arrange
	output := "s SATISFIABLE\nv 1 -2 3\nv -4 5 0\n"

	//** Act
	solution, err := parseSolution(output)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4, 5}, solution)

	_, err = parseSolution("v 1 x 0\n")
	assert.Error(t, err)
}

func lookPath(t *testing.T, name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%v is not installed", name)
	}
	return path
}

func satisfiableExecution(t *testing.T, solver SATSolver) {
	for _, instance := range []SAT{chain, {Variables: 2, Clauses: [][]int64{}}} {
		//** Act
		solution, status, err := solver.Solve(context.Background(), instance)

		//** Assert
		require.NoError(t, err)
		require.Equal(t, Satisfiable, status)
		assert.True(t, Satisfies(instance, solution))
	}
}

func unsatisfiableExecution(t *testing.T, solver SATSolver) {
	//** Act
	solution, status, err := solver.Solve(context.Background(), pigeonHole)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, status)
	assert.Nil(t, solution)
}
