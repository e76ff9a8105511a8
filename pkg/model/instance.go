package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Instance is a P||Cmax instance: jobs with positive processing times on identical machines.
// It is immutable, accessors hand out copies.
type Instance struct {
	machines int
	sizes    []int
}

// RawInstance is the JSON form of an instance
type RawInstance struct {
	Machines int
	Sizes    []int
}

// ParseError reports a malformed instance. Line is 1-based (0 when the input has no lines)
type ParseError struct {
	Line  int
	Field string
	Msg   string
}

func (err *ParseError) Error() string {
	if err.Field == "" {
		return fmt.Sprintf("line %d: %s", err.Line, err.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", err.Line, err.Field, err.Msg)
}

func NewInstance(machines int, sizes []int) (Instance, error) {
	if machines < 1 {
		return Instance{}, &ParseError{Field: "machines", Msg: fmt.Sprintf("must be positive, got %d", machines)}
	} else if len(sizes) < 1 {
		return Instance{}, &ParseError{Field: "sizes", Msg: "an instance needs at least one job"}
	}
	for job, size := range sizes {
		if size < 1 {
			return Instance{}, &ParseError{Field: fmt.Sprintf("size of job %d", job+1), Msg: fmt.Sprintf("must be positive, got %d", size)}
		}
	}
	return Instance{machines: machines, sizes: append([]int{}, sizes...)}, nil
}

func (instance Instance) Jobs() int     { return len(instance.sizes) }
func (instance Instance) Machines() int { return instance.machines }
func (instance Instance) Size(job int) int {
	return instance.sizes[job]
}

func (instance Instance) Sizes() []int {
	return append([]int{}, instance.sizes...)
}

func (instance Instance) TotalSize() int {
	return lo.Sum(instance.sizes)
}

func (instance Instance) String() string {
	return fmt.Sprintf("p p_cmax %d %d\n%s 0\n", instance.Jobs(), instance.machines, joinInts(instance.sizes))
}

// ParseInstance reads the text format:
//
//	p p_cmax <n> <m>
//	<size_1> <size_2> ... <size_n> 0
//
// The trailing 0 ends the size list, which may span several lines.
func ParseInstance(reader io.Reader) (Instance, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNumber := 0
	jobs, machines := -1, -1
	sizes := make([]int, 0)
	terminated := false
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] == "c" {
			continue
		}

		//** Header
		if jobs < 0 {
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "p_cmax" {
				return Instance{}, &ParseError{Line: lineNumber, Field: "header", Msg: fmt.Sprintf("expected \"p p_cmax <n> <m>\", got %q", scanner.Text())}
			}
			var err error
			if jobs, err = parsePositive(fields[2]); err != nil {
				return Instance{}, &ParseError{Line: lineNumber, Field: "n", Msg: err.Error()}
			}
			if machines, err = parsePositive(fields[3]); err != nil {
				return Instance{}, &ParseError{Line: lineNumber, Field: "m", Msg: err.Error()}
			}
			continue
		}

		//** Sizes
		if terminated {
			return Instance{}, &ParseError{Line: lineNumber, Field: "sizes", Msg: "unexpected content after the terminating 0"}
		}
		for _, field := range fields {
			if terminated {
				return Instance{}, &ParseError{Line: lineNumber, Field: "sizes", Msg: "unexpected content after the terminating 0"}
			}
			if field == "0" {
				terminated = true
				continue
			}
			size, err := parsePositive(field)
			if err != nil {
				return Instance{}, &ParseError{Line: lineNumber, Field: fmt.Sprintf("size of job %d", len(sizes)+1), Msg: err.Error()}
			}
			sizes = append(sizes, size)
		}
	}
	if err := scanner.Err(); err != nil {
		return Instance{}, fmt.Errorf("cannot read instance: %w", err)
	}

	if jobs < 0 {
		return Instance{}, &ParseError{Line: lineNumber, Field: "header", Msg: "missing header"}
	} else if !terminated {
		return Instance{}, &ParseError{Line: lineNumber, Field: "sizes", Msg: "size list is not terminated by 0"}
	} else if len(sizes) != jobs {
		return Instance{}, &ParseError{Line: lineNumber, Field: "sizes", Msg: fmt.Sprintf("header declares %d jobs but %d sizes are present", jobs, len(sizes))}
	}
	return NewInstance(machines, sizes)
}

func InstanceFromJson(reader io.Reader) (Instance, error) {
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return Instance{}, fmt.Errorf("cannot read instance: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Instance{}, &ParseError{Msg: err.Error()}
	}

	var rawInstance RawInstance
	if err := mapstructure.Decode(inputJson, &rawInstance); err != nil {
		return Instance{}, &ParseError{Msg: err.Error()}
	}
	return NewInstance(rawInstance.Machines, rawInstance.Sizes)
}

// ReadInstanceFile reads a text instance, or a JSON one when the file ends in .json
func ReadInstanceFile(path string) (Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return Instance{}, fmt.Errorf("cannot open instance: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return InstanceFromJson(file)
	}
	return ParseInstance(file)
}

func parsePositive(field string) (int, error) {
	value, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", field)
	} else if value < 1 {
		return 0, fmt.Errorf("must be positive, got %d", value)
	}
	return value, nil
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(value int, _ int) string { return strconv.Itoa(value) }), " ")
}
