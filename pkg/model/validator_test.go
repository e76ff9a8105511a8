package model

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInstance(t *testing.T) Instance {
	instance, err := NewInstance(2, []int{3, 2, 2})
	require.NoError(t, err)
	return instance
}

func TestValidateTightSchedule(t *testing.T) {
	//** Arrange
	instance := scenarioInstance(t)
	assignment := Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}

	//** Act
	grid, err := Validate(instance, 5, assignment)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Machines())
	assert.Equal(t, 2, grid.At(0, 4))
	assert.Equal(t, 0, grid.At(1, 2))
	assert.Equal(t, "t [0 1 2 3 4 5]\n1 [1 1 1 2 2 0]\n2 [3 3 0 0 0 0]\n", grid.String())
}

func TestValidateOverlap(t *testing.T) {
	instance := scenarioInstance(t)
	assignment := Assignment{Machines: []int{0, 1, 1}, Starts: []int{0, 0, 0}}

	_, err := Validate(instance, 5, assignment)

	var invalid *InvalidScheduleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, InvalidScheduleError{Reason: Overlap, Job: 3, Machine: 2, Time: 0, Other: 2}, *invalid)
	assert.True(t, IsFatal(err))
}

func TestValidateLooseBound(t *testing.T) {
	instance := scenarioInstance(t)
	assignment := Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}

	grid, err := Validate(instance, 6, assignment)

	var loose *LooseBoundError
	require.ErrorAs(t, err, &loose)
	assert.Equal(t, LooseBoundError{Cmax: 6, Makespan: 5}, *loose)
	assert.False(t, IsFatal(err))
	assert.Equal(t, 2, grid.At(0, 4))
}

func TestValidateOffByOne(t *testing.T) {
	instance := scenarioInstance(t)

	// Busy through Cmax-1 and idle at Cmax
	_, err := Validate(instance, 5, Assignment{Machines: []int{0, 1, 1}, Starts: []int{2, 0, 2}})
	assert.NoError(t, err)

	// Busy at Cmax itself
	_, err = Validate(instance, 5, Assignment{Machines: []int{0, 1, 1}, Starts: []int{3, 0, 2}})
	var invalid *InvalidScheduleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, BusyAtMakespan, invalid.Reason)
	assert.Equal(t, 1, invalid.Job)
	assert.Equal(t, 5, invalid.Time)

	// Past the grid
	_, err = Validate(instance, 5, Assignment{Machines: []int{0, 1, 1}, Starts: []int{4, 0, 2}})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExceedsMakespan, invalid.Reason)
	assert.Equal(t, 6, invalid.Time)
}

func TestValidateRejections(t *testing.T) {
	instance := scenarioInstance(t)
	cases := map[string]struct {
		cmax       int
		assignment Assignment
		reason     Reason
	}{
		"missing job":        {5, Assignment{Machines: []int{0, 0}, Starts: []int{0, 3}}, CountMismatch},
		"missing start":      {5, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3}}, CountMismatch},
		"machine zero":       {5, Assignment{Machines: []int{0, -1, 1}, Starts: []int{0, 3, 0}}, MachineOutOfRange},
		"machine too large":  {5, Assignment{Machines: []int{0, 0, 2}, Starts: []int{0, 3, 0}}, MachineOutOfRange},
		"zero makespan":      {0, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}, InvalidMakespan},
		"negative start":     {5, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, -1}}, NegativeStart},
		"partial overlap":    {6, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 2, 0}}, Overlap},
		"finishes too late":  {4, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}, BusyAtMakespan},
		"ends past the grid": {3, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}, ExceedsMakespan},
		"starts past grid":   {3, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 9, 0}}, ExceedsMakespan},
		"start near MaxInt":  {5, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, math.MaxInt - 1}}, ExceedsMakespan},
	}
	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(instance, testCase.cmax, testCase.assignment)

			var invalid *InvalidScheduleError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, testCase.reason, invalid.Reason)
			assert.True(t, IsFatal(err))
		})
	}
}

func TestValidateParsedHugeStart(t *testing.T) {
	//** Arrange
	instance := scenarioInstance(t)
	cmax, assignment, err := ParseSolutionLine("SCHEDULING_SOLUTION 5 1 0 1 3 2 9223372036854775806 0")
	require.NoError(t, err)

	//** Act
	_, err = Validate(instance, cmax, assignment)

	//** Assert
	var invalid *InvalidScheduleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExceedsMakespan, invalid.Reason)
	assert.Equal(t, 3, invalid.Job)
}

func TestValidateOccupancyBeyondAggregates(t *testing.T) {
	// Loads 4 and 4 fit Cmax=4 on both machines, yet the schedule overlaps on the first one
	instance, err := NewInstance(2, []int{2, 2, 2, 2})
	require.NoError(t, err)
	assignment := Assignment{Machines: []int{0, 0, 1, 1}, Starts: []int{0, 1, 0, 2}}
	assert.Equal(t, []int{4, 4}, assignment.Loads(instance))

	_, err = Validate(instance, 4, assignment)

	var invalid *InvalidScheduleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, Overlap, invalid.Reason)
	assert.Equal(t, 2, invalid.Job)
	assert.Equal(t, 1, invalid.Time)
}

func TestValidateIsIdempotent(t *testing.T) {
	instance := scenarioInstance(t)
	assignments := []Assignment{
		{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}},
		{Machines: []int{0, 1, 1}, Starts: []int{0, 0, 0}},
	}
	for _, assignment := range assignments {
		for _, cmax := range []int{4, 5, 6} {
			firstGrid, firstErr := Validate(instance, cmax, assignment)
			secondGrid, secondErr := Validate(instance, cmax, assignment)
			assert.Equal(t, firstGrid, secondGrid)
			assert.Equal(t, firstErr, secondErr)
		}
	}
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(&LooseBoundError{Cmax: 3}))
	assert.True(t, IsFatal(&InvalidScheduleError{Reason: Overlap}))
	assert.True(t, IsFatal(errors.New("unreadable solution")))
}

func TestValidateAll(t *testing.T) {
	//** Arrange
	instance := scenarioInstance(t)
	tight := Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}
	candidates := []Candidate{
		{Name: "A", Instance: instance, Cmax: 5, Assignment: tight},
		{Name: "B", Instance: instance, Cmax: 5, Assignment: Assignment{Machines: []int{0, 1, 1}, Starts: []int{0, 0, 0}}},
		{Name: "C", Instance: instance, Cmax: 6, Assignment: tight},
	}

	//** Act
	verdicts, err := ValidateAll(context.Background(), candidates, 2)

	//** Assert
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{verdicts[0].Name, verdicts[1].Name, verdicts[2].Name})
	assert.NoError(t, verdicts[0].Err)
	assert.True(t, IsFatal(verdicts[1].Err))
	assert.Error(t, verdicts[2].Err)
	assert.False(t, IsFatal(verdicts[2].Err))
}
