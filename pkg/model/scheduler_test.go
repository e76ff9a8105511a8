package model

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/makespan/pkg/cp"
	"github.com/limaJavier/makespan/pkg/sat"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSATScheduler(t *testing.T) {
	for _, strategy := range []sat.Strategy{sat.Sequential, sat.BinaryMerge} {
		for _, stepping := range []Stepping{Linear, Binary} {
			for _, skipTrivial := range []bool{true, false} {
				name := fmt.Sprintf("%v %v skip=%v", strategy, stepping, skipTrivial)
				t.Run(name, func(t *testing.T) {
					scheduler := NewSATScheduler(sat.NewGiniSolver(), strategy, stepping, sat.Options{SkipTrivial: skipTrivial, Workers: 2})
					optimalExecution(t, scheduler)
				})
			}
		}
	}
}

func TestSATSchedulerKissat(t *testing.T) {
	path, err := exec.LookPath("kissat")
	if err != nil {
		t.Skip("kissat is not installed")
	}
	optimalExecution(t, NewSATScheduler(sat.NewKissatSolver(path), sat.BinaryMerge, Linear, sat.Options{SkipTrivial: true}))
}

func TestCPScheduler(t *testing.T) {
	optimalExecution(t, NewCPScheduler(cp.NewGophersatSolver(), time.Minute))
}

func TestSchedulerCancelled(t *testing.T) {
	schedulers := map[string]Scheduler{
		"sat": NewSATScheduler(sat.NewGiniSolver(), sat.Sequential, Linear, sat.Options{}),
		"cp":  NewCPScheduler(cp.NewGophersatSolver(), time.Minute),
	}
	for name, scheduler := range schedulers {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			instance := readInstance(t, "lpt_gap_2.txt")
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			//** Act
			result, err := scheduler.Build(ctx, instance)

			//** Assert
			require.NoError(t, err)
			assert.False(t, result.Proven)
			assert.Equal(t, 7, result.Cmax)
			assert.Equal(t, 6, result.Lower)
			assert.NoError(t, scheduler.Verify(instance, result))
		})
	}
}

func TestDecide(t *testing.T) {
	instance := readInstance(t, "scenario.txt")
	for _, strategy := range []sat.Strategy{sat.Sequential, sat.BinaryMerge} {
		t.Run(strategy.String(), func(t *testing.T) {
			//** Below the optimum
			decision, err := Decide(context.Background(), sat.NewGiniSolver(), instance, 3, strategy, sat.Options{SkipTrivial: true})
			require.NoError(t, err)
			assert.Equal(t, sat.Unsatisfiable, decision.Status)

			//** At the optimum
			decision, err = Decide(context.Background(), sat.NewGiniSolver(), instance, 4, strategy, sat.Options{SkipTrivial: true})
			require.NoError(t, err)
			require.Equal(t, sat.Satisfiable, decision.Status)
			assert.LessOrEqual(t, decision.Assignment.Makespan(instance), 4)
			assert.Positive(t, decision.Variables)
			assert.Positive(t, decision.Clauses)
		})
	}
}

func TestCompileDecision(t *testing.T) {
	//** Arrange
	instance := readInstance(t, "scenario.txt")

	//** Act
	satInstance, positionVars, err := CompileDecision(context.Background(), instance, 4, sat.Sequential, sat.Options{})

	//** Assert
	require.NoError(t, err)
	assert.Len(t, positionVars, instance.Jobs()*instance.Machines())
	for job := 0; job < instance.Jobs(); job++ {
		for machine := 0; machine < instance.Machines(); machine++ {
			variable, ok := positionVars.Var(job, machine)
			require.True(t, ok)
			assert.LessOrEqual(t, uint64(variable), satInstance.Variables)
		}
	}
	for _, clause := range satInstance.Clauses {
		for _, literal := range clause {
			assert.LessOrEqual(t, uint64(max(literal, -literal)), satInstance.Variables)
		}
	}

	_, _, err = CompileDecision(context.Background(), instance, -1, sat.Sequential, sat.Options{})
	assert.Error(t, err)
}

func TestParseStepping(t *testing.T) {
	for _, stepping := range []Stepping{Linear, Binary} {
		parsed, err := ParseStepping(stepping.String())
		require.NoError(t, err)
		assert.Equal(t, stepping, parsed)
	}
	_, err := ParseStepping("random")
	assert.Error(t, err)

	assert.Equal(t, 9, Linear.next(5, 10))
	assert.Equal(t, 7, Binary.next(5, 10))
	assert.Equal(t, 5, Binary.next(5, 6))
}

func optimalExecution(t *testing.T, scheduler Scheduler) {
	entries, err := os.ReadDir(instanceDirectory)
	require.NoError(t, err)

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		//** Arrange
		instance := readInstance(t, entry.Name())

		//** Act
		result, err := scheduler.Build(context.Background(), instance)

		//** Assert
		require.NoError(t, err, entry.Name())
		assert.True(t, result.Proven, entry.Name())
		assert.Equal(t, bruteForceOptimum(instance), result.Cmax, entry.Name())
		assert.Equal(t, result.Cmax, result.Lower, entry.Name())
		assert.Equal(t, result.Cmax, result.Upper, entry.Name())
		assert.NoError(t, scheduler.Verify(instance, result), entry.Name())
	}
}

func readInstance(t *testing.T, name string) Instance {
	t.Helper()
	instance, err := ReadInstanceFile(instanceDirectory + name)
	require.NoError(t, err)
	return instance
}

// bruteForceOptimum tries every machine for every job
func bruteForceOptimum(instance Instance) int {
	best := instance.TotalSize()
	loads := make([]int, instance.Machines())
	var place func(job int)
	place = func(job int) {
		if job == instance.Jobs() {
			best = min(best, lo.Max(loads))
			return
		}
		for machine := range loads {
			loads[machine] += instance.Size(job)
			if loads[machine] < best {
				place(job + 1)
			}
			loads[machine] -= instance.Size(job)
		}
	}
	place(0)
	return best
}
