package model

import (
	"testing"

	"github.com/limaJavier/makespan/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMachines(t *testing.T) {
	//** Arrange
	instance, err := NewInstance(2, []int{3, 2, 2, 1})
	require.NoError(t, err)

	//** Act
	assignment, err := DecodeMachines(instance, []int{1, 0, 1, 1})

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Assignment{Machines: []int{1, 0, 1, 1}, Starts: []int{0, 0, 3, 5}}, assignment)
	assert.Equal(t, 6, assignment.Makespan(instance))
	assert.Equal(t, []int{2, 6}, assignment.Loads(instance))

	_, err = DecodeMachines(instance, []int{0, 0, 2, 0})
	assert.Error(t, err)
	_, err = DecodeMachines(instance, []int{0, 0})
	assert.Error(t, err)
}

func TestDecodeSAT(t *testing.T) {
	//** Arrange
	instance, err := NewInstance(2, []int{3, 2, 2})
	require.NoError(t, err)
	positionVars := sat.NewPositionVars(3, 2, sat.NewAllocator(1))
	solution := sat.SATSolution{1, -2, 3, -4, -5, 6, 7, -8}

	//** Act
	assignment, err := DecodeSAT(instance, positionVars, solution)
	again, _ := DecodeSAT(instance, positionVars, solution)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Assignment{Machines: []int{0, 0, 1}, Starts: []int{0, 3, 0}}, assignment)
	assert.Equal(t, assignment, again)
}

func TestDecodeSATRejectsAmbiguousRows(t *testing.T) {
	instance, err := NewInstance(2, []int{3, 2, 2})
	require.NoError(t, err)
	positionVars := sat.NewPositionVars(3, 2, sat.NewAllocator(1))

	_, err = DecodeSAT(instance, positionVars, sat.SATSolution{1, 2, 3, -4, -5, 6})
	assert.Error(t, err)
	_, err = DecodeSAT(instance, positionVars, sat.SATSolution{1, -2, -3, -4, -5, 6})
	assert.Error(t, err)

	// A job whose only variable is absent cannot be placed
	delete(positionVars, [2]int{2, 1})
	_, err = DecodeSAT(instance, positionVars, sat.SATSolution{1, -2, 3, -4, -5, 6})
	assert.Error(t, err)
}
