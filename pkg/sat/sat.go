package sat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SATSolution holds the signed literals reported by a solver (positive = true)
type SATSolution []int64

// SAT is a CNF instance. Variables is the highest variable id that may appear in Clauses,
// which is also the last id handed out by the allocator that built it
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// ParseDIMACS reads a DIMACS-CNF instance. Comment lines are skipped and '%' ends the input
func ParseDIMACS(reader io.Reader) (SAT, error) {
	var sat SAT
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	clause := make([]int64, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "%") {
			break // SATLIB end marker
		}
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		// Problem line
		if strings.HasPrefix(line, "p") {
			parts := strings.Fields(line)
			if len(parts) != 4 || parts[1] != "cnf" {
				return SAT{}, fmt.Errorf("invalid problem line: %s", line)
			}
			variables, err := strconv.ParseUint(parts[2], 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid variable count: %w", err)
			}
			sat.Variables = variables
			continue
		}
		// Clause line (a clause may span several lines, it ends with 0)
		for _, literalStr := range strings.Fields(line) {
			literal, err := strconv.ParseInt(literalStr, 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid literal '%s': %w", literalStr, err)
			}
			if literal == 0 {
				sat.Clauses = append(sat.Clauses, clause)
				clause = make([]int64, 0)
				continue
			}
			clause = append(clause, literal)
		}
	}
	if err := scanner.Err(); err != nil {
		return SAT{}, fmt.Errorf("error reading DIMACS: %w", err)
	}
	if len(clause) > 0 {
		sat.Clauses = append(sat.Clauses, clause)
	}

	return sat, nil
}

// Satisfies reports whether the solution is consistent (no duplicates nor contradictions) and
// satisfies every clause of the instance
func Satisfies(satInstance SAT, satSolution SATSolution) bool {
	literals := make(map[int64]bool)
	for _, literal := range satSolution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	for _, clause := range satInstance.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
