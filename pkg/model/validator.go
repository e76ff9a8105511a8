package model

import (
	"errors"
	"fmt"
	"strings"
)

type Reason string

const (
	CountMismatch     Reason = "job count mismatch"
	MachineOutOfRange Reason = "machine index out of range"
	InvalidMakespan   Reason = "makespan must be positive"
	NegativeStart     Reason = "negative start time"
	ExceedsMakespan   Reason = "schedule does not fit in [0, Cmax]"
	Overlap           Reason = "machine has multiple jobs at the same time"
	BusyAtMakespan    Reason = "machine is still working at t=Cmax (off-by-one?)"
)

// InvalidScheduleError rejects a schedule. Job and Machine are 1-based, 0 when not relevant
type InvalidScheduleError struct {
	Reason  Reason
	Job     int
	Machine int
	Time    int
	// Other is the job already occupying the cell on overlaps
	Other  int
	Detail string
}

func (err *InvalidScheduleError) Error() string {
	var builder strings.Builder
	builder.WriteString(string(err.Reason))
	if err.Job != 0 {
		fmt.Fprintf(&builder, ": job %d", err.Job)
	}
	if err.Machine != 0 {
		fmt.Fprintf(&builder, ", machine %d", err.Machine)
	}
	if err.Reason == NegativeStart || err.Reason == ExceedsMakespan || err.Reason == Overlap || err.Reason == BusyAtMakespan {
		fmt.Fprintf(&builder, ", t=%d", err.Time)
	}
	if err.Other != 0 {
		fmt.Fprintf(&builder, " (occupied by job %d)", err.Other)
	}
	if err.Detail != "" {
		fmt.Fprintf(&builder, ": %s", err.Detail)
	}
	return builder.String()
}

// LooseBoundError reports a feasible schedule in which every machine is idle from Cmax-1 on,
// so Cmax is not tight
type LooseBoundError struct {
	Cmax     int
	Makespan int
}

func (err *LooseBoundError) Error() string {
	return fmt.Sprintf("all machines are done by Cmax-1, so Cmax=%d is not tight (schedule ends at %d)", err.Cmax, err.Makespan)
}

// IsFatal tells a rejected schedule apart from a valid one with a loose bound
func IsFatal(err error) bool {
	var looseBound *LooseBoundError
	return err != nil && !errors.As(err, &looseBound)
}

// Grid is the per-machine occupancy of the time units [0, Cmax]: 0 for idle, else the 1-based job
type Grid struct {
	cells [][]int
}

func newGrid(machines, cmax int) Grid {
	cells := make([][]int, machines)
	for machine := range cells {
		cells[machine] = make([]int, cmax+1)
	}
	return Grid{cells: cells}
}

func (grid Grid) Machines() int { return len(grid.cells) }

// At returns the 1-based job running on the 0-based machine at t (0 when idle)
func (grid Grid) At(machine, t int) int {
	return grid.cells[machine][t]
}

// String prints the timeline of every machine
func (grid Grid) String() string {
	if len(grid.cells) == 0 {
		return ""
	}
	var builder strings.Builder
	times := make([]int, len(grid.cells[0]))
	for t := range times {
		times[t] = t
	}
	fmt.Fprintf(&builder, "t %v\n", times)
	for machine, row := range grid.cells {
		fmt.Fprintf(&builder, "%d %v\n", machine+1, row)
	}
	return builder.String()
}

// Validate rebuilds the occupancy grid of a schedule and checks it runs every job exactly once,
// without overlaps, within [0, cmax), with some machine busy at cmax-1. A feasible schedule
// that is not tight yields its grid together with a *LooseBoundError; any other failure is an
// *InvalidScheduleError. The check proves nothing about optimality.
func Validate(instance Instance, cmax int, assignment Assignment) (Grid, error) {
	jobs := instance.Jobs()
	if len(assignment.Machines) != jobs || len(assignment.Starts) != jobs {
		return Grid{}, &InvalidScheduleError{
			Reason: CountMismatch,
			Detail: fmt.Sprintf("instance has %d jobs, schedule gives %d machines and %d start times", jobs, len(assignment.Machines), len(assignment.Starts)),
		}
	}

	for job, machine := range assignment.Machines {
		if machine < 0 || machine >= instance.Machines() {
			return Grid{}, &InvalidScheduleError{
				Reason:  MachineOutOfRange,
				Job:     job + 1,
				Machine: machine + 1,
				Detail:  fmt.Sprintf("got %d, expected [1, %d]", machine+1, instance.Machines()),
			}
		}
	}

	if cmax < 1 {
		return Grid{}, &InvalidScheduleError{Reason: InvalidMakespan, Detail: fmt.Sprintf("Cmax=%d", cmax)}
	}

	//** Mark every unit of work
	grid := newGrid(instance.Machines(), cmax)
	for job, machine := range assignment.Machines {
		start := assignment.Starts[job]
		if start < 0 {
			return Grid{}, &InvalidScheduleError{Reason: NegativeStart, Job: job + 1, Machine: machine + 1, Time: start}
		}
		if start > cmax {
			return Grid{}, &InvalidScheduleError{Reason: ExceedsMakespan, Job: job + 1, Machine: machine + 1, Time: start}
		}
		// start <= cmax from here on, so start+offset cannot overflow
		for offset := 0; offset < instance.Size(job); offset++ {
			t := start + offset
			if t > cmax {
				return Grid{}, &InvalidScheduleError{Reason: ExceedsMakespan, Job: job + 1, Machine: machine + 1, Time: t}
			}
			if other := grid.cells[machine][t]; other != 0 {
				return Grid{}, &InvalidScheduleError{Reason: Overlap, Job: job + 1, Machine: machine + 1, Time: t, Other: other}
			}
			grid.cells[machine][t] = job + 1
		}
	}

	//** All work must be over at Cmax, and some of it must still run at Cmax-1
	busyBeforeCmax := false
	for machine, row := range grid.cells {
		if row[cmax] != 0 {
			return Grid{}, &InvalidScheduleError{Reason: BusyAtMakespan, Job: row[cmax], Machine: machine + 1, Time: cmax}
		}
		busyBeforeCmax = busyBeforeCmax || row[cmax-1] != 0
	}
	if !busyBeforeCmax {
		return grid, &LooseBoundError{Cmax: cmax, Makespan: assignment.Makespan(instance)}
	}

	return grid, nil
}
