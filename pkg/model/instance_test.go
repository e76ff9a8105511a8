package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instanceDirectory = "testdata/instances/"

func TestParseInstance(t *testing.T) {
	//** Arrange
	input := "p p_cmax 3 2\n3 2 2 0\n"

	//** Act
	instance, err := ParseInstance(strings.NewReader(input))

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 3, instance.Jobs())
	assert.Equal(t, 2, instance.Machines())
	assert.Equal(t, []int{3, 2, 2}, instance.Sizes())
	assert.Equal(t, 7, instance.TotalSize())
	assert.Equal(t, input, instance.String())
}

func TestInstanceIsImmutable(t *testing.T) {
	sizes := []int{3, 2, 2}
	instance, err := NewInstance(2, sizes)
	require.NoError(t, err)

	sizes[0] = 100
	instance.Sizes()[1] = 100

	assert.Equal(t, []int{3, 2, 2}, instance.Sizes())
}

func TestParseInstanceErrors(t *testing.T) {
	inputs := map[string]struct {
		input string
		line  int
		field string
	}{
		"job count mismatch": {"p p_cmax 4 2\n3 2 2 0\n", 2, "sizes"},
		"too many sizes":     {"p p_cmax 2 2\n3 2 2 0\n", 2, "sizes"},
		"bad header":         {"p cnf 3 2\n3 2 2 0\n", 1, "header"},
		"missing header":     {"", 0, "header"},
		"zero machines":      {"p p_cmax 3 0\n3 2 2 0\n", 1, "m"},
		"bad job count":      {"p p_cmax x 2\n3 2 2 0\n", 1, "n"},
		"negative size":      {"p p_cmax 3 2\n3 -2 2 0\n", 2, "size of job 2"},
		"not a number":       {"p p_cmax 3 2\n3 two 2 0\n", 2, "size of job 2"},
		"unterminated":       {"p p_cmax 3 2\n3 2 2\n", 2, "sizes"},
		"trailing content":   {"p p_cmax 3 2\n3 2 2 0 5\n", 2, "sizes"},
	}
	for name, testCase := range inputs {
		t.Run(name, func(t *testing.T) {
			//** Act
			_, err := ParseInstance(strings.NewReader(testCase.input))

			//** Assert
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected a parse error, got %v", err)
			assert.Equal(t, testCase.line, parseErr.Line)
			assert.Equal(t, testCase.field, parseErr.Field)
		})
	}
}

func TestReadInstanceFile(t *testing.T) {
	multiline, err := ReadInstanceFile(instanceDirectory + "multiline.txt")
	require.NoError(t, err)
	assert.Equal(t, []int{6, 1, 5, 2, 4, 3}, multiline.Sizes())
	assert.Equal(t, 2, multiline.Machines())

	text, err := ReadInstanceFile(instanceDirectory + "lpt_gap_2.txt")
	require.NoError(t, err)
	json, err := ReadInstanceFile(instanceDirectory + "lpt_gap_2.json")
	require.NoError(t, err)
	assert.Equal(t, text, json)

	_, err = ReadInstanceFile(instanceDirectory + "missing.txt")
	assert.Error(t, err)
}

func TestInstanceFromJson(t *testing.T) {
	_, err := InstanceFromJson(strings.NewReader(`{"machines": 2, "sizes": [3, 0]}`))
	assert.Error(t, err)
	_, err = InstanceFromJson(strings.NewReader(`{"machines": 2, "sizes": `))
	assert.Error(t, err)
	_, err = InstanceFromJson(strings.NewReader(`{"machines": 0, "sizes": [1]}`))
	assert.Error(t, err)
}
