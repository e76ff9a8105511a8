package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseMeasureLines(t *testing.T) {
	assert.Equal(t, int64(2*60*1000+3000+450), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 2:03.45"))
	assert.Equal(t, float32(2), parseMemoryLine("\tMaximum resident set size (kbytes): 2048"))
	assert.Equal(t, int64(97), parseCpuPercentageLine("\tPercent of CPU this job got: 97%"))
}

func TestGetConfigurations(t *testing.T) {
	configurations := getConfigurations()
	assert.Len(t, configurations, 9)
	assert.Contains(t, configurations, Configuration{Backend: "cp", Solver: "gophersat"})
}
