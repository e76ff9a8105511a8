package cp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Request is the text form of a solve:
//
//	<num_jobs> <num_procs> <lower_bound> <upper_bound> <time_limit_seconds>
//	<weight_1> ... <weight_num_jobs>
type Request struct {
	Model     Model
	TimeLimit time.Duration
}

func ParseRequest(reader io.Reader) (Request, error) {
	lines, err := readLines(reader)
	if err != nil {
		return Request{}, err
	}
	if len(lines) != 2 {
		return Request{}, fmt.Errorf("request must hold a header and a weight line, got %d lines", len(lines))
	}

	header := strings.Fields(lines[0])
	if len(header) != 5 {
		return Request{}, fmt.Errorf("header must hold 5 values, got %d", len(header))
	}
	values, err := atois(header[:4])
	if err != nil {
		return Request{}, fmt.Errorf("invalid header: %w", err)
	}
	seconds, err := strconv.ParseFloat(header[4], 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return Request{}, fmt.Errorf("invalid time limit %q", header[4])
	}

	weights, err := atois(strings.Fields(lines[1]))
	if err != nil {
		return Request{}, fmt.Errorf("invalid weights: %w", err)
	}

	model, err := Build(values[0], values[1], weights, values[2], values[3])
	if err != nil {
		return Request{}, err
	}
	return Request{Model: model, TimeLimit: time.Duration(seconds * float64(time.Second))}, nil
}

func (request Request) String() string {
	model := request.Model
	return fmt.Sprintf("%d %d %d %d %s\n%s\n",
		model.Jobs, model.Machines, model.Lower, model.Upper,
		strconv.FormatFloat(request.TimeLimit.Seconds(), 'f', -1, 64),
		joinInts(model.Weights),
	)
}

// String renders the response: the objective and the 0-based machine of every job, or the
// words "unsatisfiable" or "timeout"
func (result Result) String() string {
	if result.Status != Optimal {
		return result.Status.String() + "\n"
	}
	return fmt.Sprintf("%d\n%s\n", result.Objective, joinInts(result.Machines))
}

func ParseResponse(reader io.Reader) (Result, error) {
	lines, err := readLines(reader)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("empty response")
	}

	switch strings.TrimSpace(lines[0]) {
	case Infeasible.String():
		return Result{Status: Infeasible}, nil
	case Timeout.String():
		return Result{Status: Timeout}, nil
	}

	objective, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Result{}, fmt.Errorf("invalid objective %q", lines[0])
	}
	if len(lines) < 2 {
		return Result{}, fmt.Errorf("response with objective %d lacks the assignment line", objective)
	}
	machines, err := atois(strings.Fields(lines[1]))
	if err != nil {
		return Result{}, fmt.Errorf("invalid assignment: %w", err)
	}
	return Result{Status: Optimal, Objective: objective, Machines: machines}, nil
}

func readLines(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lines := make([]string, 0, 2)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}
	return lines, nil
}

func atois(fields []string) ([]int, error) {
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an integer", field)
		}
		values[i] = value
	}
	return values, nil
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(value int, _ int) string { return strconv.Itoa(value) }), " ")
}
