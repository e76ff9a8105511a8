package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/model"
	"github.com/samber/lo"
)

const (
	executablePath            = "../../bin/pcmax"
	instanceDirectory         = "../../pkg/model/testdata/instances/"
	MB                float32 = 1024 // in kbytes
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	timeout
)

var resultTypes = map[ResultType]string{
	solved:        "solved",
	unsatisfiable: "unsatisfiable",
	timeout:       "timeout",
}

type TestMetadata struct {
	Name      string
	Jobs      int
	Machines  int
	TotalSize int
}

// Configuration is one way of running the CLI
type Configuration struct {
	Backend  string
	Solver   string
	Encoding string
}

type BenchmarkResult struct {
	Configuration Configuration
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Cmax          int
	Result        ResultType
}

func main() {
	directoryPtr := flag.String("dir", instanceDirectory, "Directory holding the instance files")
	timeoutPtr := flag.Duration("timeout", time.Minute, "Time limit of every run")
	outFilePtr := flag.String("out", "benchmark_results.csv", "Path of the CSV file")
	flag.Parse()
	defer log.Flush()

	tests := getTests(*directoryPtr)
	configurations := getConfigurations()
	results := make([]BenchmarkResult, 0, len(tests)*len(configurations))

	for _, test := range tests {
		for _, configuration := range configurations {
			fmt.Printf("Benchmarking test \"%v\" with backend \"%v\", solver \"%v\" and encoding \"%v\"\n", test.Name, configuration.Backend, configuration.Solver, configuration.Encoding)

			duration, maxMemory, cpuPercentage, cmax, result := measure(configuration, test.Name, *timeoutPtr)

			results = append(results, BenchmarkResult{
				Configuration: configuration,
				Test:          test,
				Duration:      duration,
				Memory:        maxMemory,
				CpuPercentage: cpuPercentage,
				Cmax:          cmax,
				Result:        result,
			})
		}
	}

	toCsv(*outFilePtr, results)
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		if file.IsDir() {
			continue
		}
		filename := filepath.Join(directory, file.Name())
		instance, err := model.ReadInstanceFile(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Jobs:      instance.Jobs(),
			Machines:  instance.Machines(),
			TotalSize: instance.TotalSize(),
		})
	}
	return tests
}

func getConfigurations() []Configuration {
	configurations := make([]Configuration, 0)
	for _, solver := range []string{"gini", "kissat", "cadical", "minisat"} {
		for _, encoding := range []string{"sequential", "binmerge"} {
			configurations = append(configurations, Configuration{Backend: "sat", Solver: solver, Encoding: encoding})
		}
	}
	return append(configurations, Configuration{Backend: "cp", Solver: "gophersat"})
}

func measure(configuration Configuration, testFile string, limit time.Duration) (duration int64, maxMemory float32, cpuPercentage int64, cmax int, result ResultType) {
	args := []string{"-v", executablePath, "-backend", configuration.Backend, "-file", testFile, "-timeout", limit.String()}
	if configuration.Backend == "sat" {
		args = append(args, "-solver", configuration.Solver, "-encoding", configuration.Encoding)
	}
	cmd := exec.Command("/usr/bin/time", args...)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result = solved
	case 20:
		result = unsatisfiable
	case 30:
		result = timeout
	default:
		log.Fatalf("an error occurred during the execution of \"pcmax\" at test \"%v\" using %+v: %v\n", testFile, configuration, stdErr.String())
	}
	if result != unsatisfiable {
		cmax, _, _ = model.ParseSolutionOutput(&stdOut)
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, cmax, result
}

func toCsv(filePath string, results []BenchmarkResult) {
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Backend", "Solver", "Encoding", "Test", "Jobs", "Machines", "TotalSize", "Duration(ms)", "Memory(MB)", "CPU(%)", "Cmax", "Result"}
	if err := writer.Write(header); err != nil {
		log.Fatalf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Configuration.Backend,
			result.Configuration.Solver,
			result.Configuration.Encoding,
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Jobs),
			fmt.Sprintf("%d", result.Test.Machines),
			fmt.Sprintf("%d", result.Test.TotalSize),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			fmt.Sprintf("%d", result.Cmax),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Fatalf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
