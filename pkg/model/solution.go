package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const SolutionTag = "SCHEDULING_SOLUTION"

// Assignment places every job on a 0-based machine at a start time
type Assignment struct {
	Machines []int
	Starts   []int
}

// Makespan is the completion time of the last job
func (assignment Assignment) Makespan(instance Instance) int {
	makespan := 0
	for job, start := range assignment.Starts {
		if job < instance.Jobs() {
			makespan = max(makespan, start+instance.Size(job))
		}
	}
	return makespan
}

// Loads returns the summed size of the jobs of each machine
func (assignment Assignment) Loads(instance Instance) []int {
	loads := make([]int, instance.Machines())
	for job, machine := range assignment.Machines {
		if machine >= 0 && machine < len(loads) && job < instance.Jobs() {
			loads[machine] += instance.Size(job)
		}
	}
	return loads
}

// FormatSolutionLine renders the solution line with 1-based machines:
//
//	SCHEDULING_SOLUTION <Cmax> <machine_1> <start_1> ... <machine_n> <start_n> 0
func FormatSolutionLine(cmax int, assignment Assignment) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %d", SolutionTag, cmax)
	for job, machine := range assignment.Machines {
		fmt.Fprintf(&builder, " %d %d", machine+1, assignment.Starts[job])
	}
	builder.WriteString(" 0")
	return builder.String()
}

// ParseSolutionLine reads a line produced by FormatSolutionLine
func ParseSolutionLine(line string) (int, Assignment, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != SolutionTag {
		return 0, Assignment{}, &ParseError{Field: "solution", Msg: fmt.Sprintf("expected \"%s <Cmax> ... 0\", got %q", SolutionTag, line)}
	}
	if fields[len(fields)-1] != "0" {
		return 0, Assignment{}, &ParseError{Field: "solution", Msg: "solution line is not terminated by 0"}
	}

	values := make([]int, 0, len(fields)-2)
	for _, field := range fields[1 : len(fields)-1] {
		value, err := strconv.Atoi(field)
		if err != nil {
			return 0, Assignment{}, &ParseError{Field: "solution", Msg: fmt.Sprintf("%q is not an integer", field)}
		}
		values = append(values, value)
	}

	cmax, pairs := values[0], values[1:]
	if len(pairs)%2 != 0 {
		return 0, Assignment{}, &ParseError{Field: "solution", Msg: "machines and start times must come in pairs"}
	}
	assignment := Assignment{Machines: make([]int, 0, len(pairs)/2), Starts: make([]int, 0, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		assignment.Machines = append(assignment.Machines, pairs[i]-1)
		assignment.Starts = append(assignment.Starts, pairs[i+1])
	}
	return cmax, assignment, nil
}

// ParseSolutionOutput scans solver output for the first solution line
func ParseSolutionOutput(reader io.Reader) (int, Assignment, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if strings.HasPrefix(scanner.Text(), SolutionTag) {
			cmax, assignment, err := ParseSolutionLine(scanner.Text())
			if parseErr, ok := err.(*ParseError); ok {
				parseErr.Line = lineNumber
			}
			return cmax, assignment, err
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, Assignment{}, fmt.Errorf("cannot read solver output: %w", err)
	}
	return 0, Assignment{}, &ParseError{Line: lineNumber, Field: "solution", Msg: "no solution line found"}
}
