package sat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// PBRequest is a request to compile the per-machine load constraints of a scheduling instance:
//
//	<num_jobs> <num_procs> <next_free_var> <makespan_bound>
//	<weight_1> ... <weight_num_jobs>
//	<position variables of job 1, one per machine, 0 = unused>
//	...
type PBRequest struct {
	Jobs         int
	Machines     int
	NextFreeVar  int64
	Bound        int
	Weights      []int
	PositionVars PositionVars
}

func ParsePBRequest(reader io.Reader) (PBRequest, error) {
	lines, err := readFieldLines(reader)
	if err != nil {
		return PBRequest{}, err
	}
	if len(lines) < 2 {
		return PBRequest{}, fmt.Errorf("request must hold a header and a weight line, got %d lines", len(lines))
	}

	header, err := parseInts(lines[0])
	if err != nil {
		return PBRequest{}, fmt.Errorf("invalid header: %w", err)
	}
	if len(header) != 4 {
		return PBRequest{}, fmt.Errorf("header must hold 4 values, got %d", len(header))
	}
	request := PBRequest{
		Jobs:         int(header[0]),
		Machines:     int(header[1]),
		NextFreeVar:  header[2],
		Bound:        int(header[3]),
		PositionVars: make(PositionVars),
	}
	if request.Jobs < 1 || request.Machines < 1 {
		return PBRequest{}, fmt.Errorf("job and machine counts must be positive: %d %d", request.Jobs, request.Machines)
	} else if request.NextFreeVar < 1 {
		return PBRequest{}, fmt.Errorf("next free variable must be positive: %d", request.NextFreeVar)
	} else if request.Bound < 0 {
		return PBRequest{}, fmt.Errorf("makespan bound must be non-negative: %d", request.Bound)
	}

	weights, err := parseInts(lines[1])
	if err != nil {
		return PBRequest{}, fmt.Errorf("invalid weights: %w", err)
	}
	if len(weights) != request.Jobs {
		return PBRequest{}, fmt.Errorf("expected %d weights, got %d", request.Jobs, len(weights))
	}
	request.Weights = lo.Map(weights, func(weight int64, _ int) int { return int(weight) })
	if lo.SomeBy(request.Weights, func(weight int) bool { return weight < 1 }) {
		return PBRequest{}, fmt.Errorf("weights must be positive: %v", request.Weights)
	}

	rows := lines[2:]
	if len(rows) != request.Jobs {
		return PBRequest{}, fmt.Errorf("expected %d position variable rows, got %d", request.Jobs, len(rows))
	}
	for job, row := range rows {
		ids, err := parseInts(row)
		if err != nil {
			return PBRequest{}, fmt.Errorf("invalid position variables of job %d: %w", job+1, err)
		}
		if len(ids) != request.Machines {
			return PBRequest{}, fmt.Errorf("job %d has %d position variables, expected %d", job+1, len(ids), request.Machines)
		}
		for machine, id := range ids {
			if id < 0 {
				return PBRequest{}, fmt.Errorf("position variable of job %d on machine %d is negative: %d", job+1, machine+1, id)
			} else if id >= request.NextFreeVar {
				return PBRequest{}, fmt.Errorf("position variable %d is not below the next free variable %d", id, request.NextFreeVar)
			} else if id != 0 {
				request.PositionVars[[2]int{job, machine}] = id
			}
		}
	}

	return request, nil
}

func (request PBRequest) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d %d %d %d\n", request.Jobs, request.Machines, request.NextFreeVar, request.Bound)
	builder.WriteString(joinInts(request.Weights) + "\n")
	for job := 0; job < request.Jobs; job++ {
		row := make([]int64, request.Machines)
		for machine := range row {
			row[machine], _ = request.PositionVars.Var(job, machine)
		}
		builder.WriteString(joinInts(row) + "\n")
	}
	return builder.String()
}

// Encode compiles one at-most constraint per machine and returns the clauses together with the
// next free variable after the encoding
func (request PBRequest) Encode(ctx context.Context, strategy Strategy, opts Options) ([][]int64, int64, error) {
	allocator := NewAllocator(request.NextFreeVar)
	literalSets := make([][]WeightedLiteral, request.Machines)
	for machine := range literalSets {
		literalSets[machine] = request.PositionVars.WeightedLiterals(machine, request.Weights)
	}

	clauses, err := EncodeMachines(ctx, strategy, literalSets, request.Bound, allocator, opts)
	if err != nil {
		return nil, 0, err
	}
	return clauses, allocator.Peek(), nil
}

// FormatClauses writes one clause per line as space-separated literals
func FormatClauses(writer io.Writer, clauses [][]int64) error {
	buffered := bufio.NewWriter(writer)
	for _, clause := range clauses {
		if _, err := buffered.WriteString(joinInts(clause) + "\n"); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

// ParseClauses reads the output of FormatClauses
func ParseClauses(reader io.Reader) ([][]int64, error) {
	lines, err := readFieldLines(reader)
	if err != nil {
		return nil, err
	}
	clauses := make([][]int64, len(lines))
	for i, fields := range lines {
		clause, err := parseInts(fields)
		if err != nil {
			return nil, fmt.Errorf("invalid clause at line %d: %w", i+1, err)
		}
		clauses[i] = clause
	}
	return clauses, nil
}

// readFieldLines splits every non-blank line into fields
func readFieldLines(reader io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lines := make([][]string, 0)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}
	return lines, nil
}

func parseInts(fields []string) ([]int64, error) {
	values := make([]int64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an integer", field)
		}
		values[i] = value
	}
	return values, nil
}

func joinInts[T int | int64](values []T) string {
	return strings.Join(lo.Map(values, func(value T, _ int) string {
		return strconv.FormatInt(int64(value), 10)
	}), " ")
}
