package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/cp"
	"github.com/limaJavier/makespan/pkg/model"
	"github.com/limaJavier/makespan/pkg/sat"
	"github.com/samber/lo"
)

const (
	exitSolved        = 10
	exitVerifyFailed  = 15
	exitUnsatisfiable = 20
	exitTimeout       = 30
)

var validBackends = []string{"sat", "cp"}

func main() {
	setConfigPath()
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the instance file (p_cmax text format, or JSON when it ends in .json)")
	backendPtr := flag.String("backend", "sat", "Search backend. Allowed values are: \"sat\" (one SAT decision per makespan) and \"cp\" (a single optimisation model), where \"sat\" is the default")
	solverPtr := flag.String("solver", "", fmt.Sprintf("SAT-Solver to use. Allowed values are: %v; the config file decides when empty", strings.Join(sat.Solvers(), ", ")))
	encodingPtr := flag.String("encoding", "", "Cardinality encoding. Allowed values are: \"sequential\" and \"binmerge\"; the config file decides when empty")
	steppingPtr := flag.String("stepping", "linear", "How the SAT backend picks the next makespan: \"linear\" (upper-1) or \"binary\"")
	cmaxPtr := flag.Int("cmax", 0, "Decide a single makespan bound instead of searching for the optimum; the solution line carries the makespan of the schedule found")
	timeoutPtr := flag.Duration("timeout", 0, "Time limit of the whole run, e.g. 30s; the config file decides when 0")
	workersPtr := flag.Int("workers", 0, "Machines encoded in parallel; the config file decides when 0")
	dimacsPtr := flag.String("dimacs", "", "With -cmax, write the CNF of the decision to this file and exit without solving")
	configPathPtr := flag.String("config", "", "Path to the configuration file; defaults to config.json next to the executable")
	outFilePathPtr := flag.String("out", "", "Path to the file where the solution line will be written; if empty, it'll be written into the Standard Output")
	flag.Parse()
	defer log.Flush()

	backend := strings.ToLower(*backendPtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr
	cmax := *cmaxPtr

	// Validate arguments
	if !slices.Contains(validBackends, backend) {
		log.Exitf("%v is not a valid backend", backend)
	} else if filePath == "" {
		log.Exit("an input file must be specified")
	} else if cmax < 0 {
		log.Exitf("cmax must be positive: %v", cmax)
	} else if *dimacsPtr != "" && cmax == 0 {
		log.Exit("-dimacs requires -cmax")
	}

	config, err := sat.LoadConfig(*configPathPtr)
	if err != nil {
		log.Exitf("cannot load configuration: %v", err)
	}
	config.Solver = lo.Ternary(*solverPtr != "", *solverPtr, config.Solver)
	config.Encoding = lo.Ternary(*encodingPtr != "", *encodingPtr, config.Encoding)
	config.Timeout = lo.Ternary(*timeoutPtr > 0, *timeoutPtr, config.Timeout)
	config.Workers = lo.Ternary(*workersPtr > 0, *workersPtr, config.Workers)

	strategy, err := sat.ParseStrategy(config.Encoding)
	if err != nil {
		log.Exit(err)
	}
	stepping, err := model.ParseStepping(*steppingPtr)
	if err != nil {
		log.Exit(err)
	}
	opts := sat.Options{SkipTrivial: config.SkipTrivial, Workers: config.Workers}

	// Extract input
	instance, err := model.ReadInstanceFile(filePath)
	if err != nil {
		log.Exitf("cannot parse input file: %v", err)
	}

	ctx := context.Background()
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	if *dimacsPtr != "" {
		writeDimacs(ctx, instance, cmax, strategy, opts, *dimacsPtr)
		return
	}

	solver, err := sat.NewSolver(config.Solver, config)
	if err != nil {
		log.Exit(err)
	}

	if cmax > 0 {
		code := decide(ctx, solver, instance, cmax, strategy, opts, outFile)
		log.Flush()
		os.Exit(code)
	}

	// Initialize engines
	var scheduler model.Scheduler
	if backend == "cp" {
		scheduler = newCPScheduler(config)
	} else {
		scheduler = model.NewSATScheduler(solver, strategy, stepping, opts)
	}

	// Build schedule
	result, err := scheduler.Build(ctx, instance)
	if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}

	// Verify schedule correctness
	if err := scheduler.Verify(instance, result); err != nil {
		log.Errorf("schedule verification failed: %v", err)
		printStats(result.Variables, result.Clauses)
		log.Flush()
		os.Exit(exitVerifyFailed)
	}

	writeSolution(outFile, model.FormatSolutionLine(result.Cmax, result.Assignment))
	fmt.Printf("Bounds: [%v, %v]\n", result.Lower, result.Upper)
	fmt.Printf("Calls: %v\n", result.Calls)
	printStats(result.Variables, result.Clauses)
	log.Flush()
	if !result.Proven {
		os.Exit(exitTimeout)
	}
	os.Exit(exitSolved)
}

// decide answers whether a schedule fits in cmax and returns the exit code
func decide(ctx context.Context, solver sat.SATSolver, instance model.Instance, cmax int, strategy sat.Strategy, opts sat.Options, outFile string) int {
	decision, err := model.Decide(ctx, solver, instance, cmax, strategy, opts)
	if err != nil {
		log.Fatalf("an error occurred while deciding Cmax=%v: %v", cmax, err)
	}
	defer printStats(decision.Variables, decision.Clauses)

	switch decision.Status {
	case sat.Unsatisfiable:
		return exitUnsatisfiable
	case sat.Timeout:
		return exitTimeout
	}

	line, err := decisionLine(instance, decision.Assignment)
	if err != nil {
		log.Errorf("schedule verification failed: %v", err)
		return exitVerifyFailed
	}
	writeSolution(outFile, line)
	return exitSolved
}

// decisionLine validates a schedule found under a bound and renders it with its own makespan,
// which may be below the bound that was decided
func decisionLine(instance model.Instance, assignment model.Assignment) (string, error) {
	makespan := assignment.Makespan(instance)
	if _, err := model.Validate(instance, makespan, assignment); err != nil {
		return "", err
	}
	return model.FormatSolutionLine(makespan, assignment), nil
}

func newCPScheduler(config sat.Config) model.Scheduler {
	if config.CPSolverCmd == "" {
		return model.NewCPScheduler(cp.NewGophersatSolver(), config.Timeout)
	}
	solver, err := cp.NewExternalSolver(config.CPSolverCmd)
	if err != nil {
		log.Exit(err)
	}
	return model.NewCPScheduler(solver, config.Timeout)
}

func writeDimacs(ctx context.Context, instance model.Instance, cmax int, strategy sat.Strategy, opts sat.Options, filePath string) {
	satInstance, _, err := model.CompileDecision(ctx, instance, cmax, strategy, opts)
	if err != nil {
		log.Exitf("cannot encode Cmax=%v: %v", cmax, err)
	}
	if err := os.WriteFile(filePath, []byte(satInstance.ToDIMACS()), 0666); err != nil {
		log.Exitf("an error occurred while writing the DIMACS file: %v", err)
	}
	printStats(satInstance.Variables, uint64(len(satInstance.Clauses)))
}

// writeSolution writes to the Standard Output when outFile is empty
func writeSolution(outFile, line string) {
	if outFile == "" {
		fmt.Println(line)
		return
	}
	if err := os.WriteFile(outFile, []byte(line+"\n"), 0666); err != nil {
		log.Exitf("an error occurred while writing to the output file: %v", err)
	}
}

func printStats(variables, clauses uint64) {
	fmt.Printf("Variables: %v\n", variables)
	fmt.Printf("Clauses: %v\n", clauses)
}

// setConfigPath points the configuration at config.json next to the executable, when there is one
func setConfigPath() {
	execPath, err := os.Executable()
	if err != nil {
		log.Exitf("cannot determine executable path: %v", err)
	}
	execPath = path.Dir(execPath)

	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Exitf("cannot read executable's directory: %v", err)
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if slices.Contains(fileNames, sat.ConfigPath) {
		sat.ConfigPath = path.Join(execPath, sat.ConfigPath)
	}
}
