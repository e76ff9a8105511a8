package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/model"
)

func main() {
	listPathPtr := flag.String("list", "", "Path to a file with one \"<instancefile> <outputfile>\" pair per line; validates them all")
	workersPtr := flag.Int("workers", 0, "Schedules validated in parallel in -list mode, where 0 means no limit")
	cacheSizePtr := flag.Int("cache", 64, "Number of parsed instances kept in memory in -list mode")
	strictPtr := flag.Bool("strict", false, "Also reject schedules whose Cmax is not tight")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [flags] instancefile outputfile\n       %v [flags] -list pairsfile\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer log.Flush()

	rejected := func(err error) bool {
		return model.IsFatal(err) || (*strictPtr && err != nil)
	}

	if *listPathPtr != "" {
		verdicts := validateList(*listPathPtr, *workersPtr, *cacheSizePtr)
		failures := 0
		for _, verdict := range verdicts {
			switch {
			case rejected(verdict.Err):
				failures++
				fmt.Printf("%v: INVALID %v\n", verdict.Name, verdict.Err)
			case verdict.Err != nil:
				fmt.Printf("%v: VALID (%v)\n", verdict.Name, verdict.Err)
			default:
				fmt.Printf("%v: VALID\n", verdict.Name)
			}
		}
		if failures > 0 {
			log.Exitf("%v of %v schedules are invalid", failures, len(verdicts))
		}
		return
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	candidate, err := readCandidate(flag.Arg(0), flag.Arg(1), model.ReadInstanceFile)
	if err != nil {
		log.Exit(err)
	}
	fmt.Printf("Parsed instance %v: n=%v m=%v sizes=[%v]\n", flag.Arg(0), candidate.Instance.Jobs(), candidate.Instance.Machines(), strings.Trim(fmt.Sprint(candidate.Instance.Sizes()), "[]"))
	fmt.Printf("Found solution: Cmax=%v machines=%v starttimes=%v\n", candidate.Cmax, oneBased(candidate.Assignment.Machines), candidate.Assignment.Starts)

	grid, err := model.Validate(candidate.Instance, candidate.Cmax, candidate.Assignment)
	if rejected(err) {
		log.Exitf("invalid schedule: %v", err)
	} else if err != nil {
		log.Warning(err)
	}

	fmt.Println("Schedule validated (correct, but not necessarily optimal).")
	fmt.Print(grid.String())
}

// validateList reads every pair of the list, sharing parsed instances through a cache
func validateList(listPath string, workers, cacheSize int) []model.Verdict {
	file, err := os.Open(listPath)
	if err != nil {
		log.Exitf("cannot open list file: %v", err)
	}
	defer file.Close()

	cache, err := model.NewInstanceCache(cacheSize)
	if err != nil {
		log.Exit(err)
	}

	candidates := make([]model.Candidate, 0)
	scanner := bufio.NewScanner(file)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		} else if len(fields) != 2 {
			log.Exitf("line %v of %v: expected \"<instancefile> <outputfile>\", got %q", lineNumber, listPath, scanner.Text())
		}
		candidate, err := readCandidate(fields[0], fields[1], cache.Load)
		if err != nil {
			log.Exitf("line %v of %v: %v", lineNumber, listPath, err)
		}
		candidates = append(candidates, candidate)
	}
	if err := scanner.Err(); err != nil {
		log.Exitf("cannot read list file: %v", err)
	}
	log.V(1).Infof("%v schedules read, %v distinct instances", len(candidates), cache.Len())

	verdicts, err := model.ValidateAll(context.Background(), candidates, workers)
	if err != nil {
		log.Exit(err)
	}
	return verdicts
}

func readCandidate(instancePath, outputPath string, load func(string) (model.Instance, error)) (model.Candidate, error) {
	instance, err := load(instancePath)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("cannot parse instance file %v: %w", instancePath, err)
	}

	output, err := os.Open(outputPath)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("cannot open output file: %w", err)
	}
	defer output.Close()
	cmax, assignment, err := model.ParseSolutionOutput(output)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("cannot parse output file %v: %w", outputPath, err)
	}

	return model.Candidate{Name: outputPath, Instance: instance, Cmax: cmax, Assignment: assignment}, nil
}

func oneBased(machines []int) []int {
	shifted := make([]int, len(machines))
	for i, machine := range machines {
		shifted[i] = machine + 1
	}
	return shifted
}
