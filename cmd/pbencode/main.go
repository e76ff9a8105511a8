package main

import (
	"context"
	"flag"
	"os"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/sat"
	"github.com/samber/lo"
)

// Reads a load-constraint request from the Standard Input and writes one clause per line to the
// Standard Output
func main() {
	encodingPtr := flag.String("encoding", "", "Cardinality encoding: \"sequential\" or \"binmerge\"; the configuration decides when empty")
	workersPtr := flag.Int("workers", 0, "Machines encoded in parallel; the configuration decides when 0")
	configPathPtr := flag.String("config", "", "Path to the configuration file")
	flag.Parse()
	defer log.Flush()

	config, err := sat.LoadConfig(*configPathPtr)
	if err != nil {
		log.Exitf("cannot load configuration: %v", err)
	}
	strategy, err := sat.ParseStrategy(lo.Ternary(*encodingPtr != "", *encodingPtr, config.Encoding))
	if err != nil {
		log.Exit(err)
	}
	opts := sat.Options{
		SkipTrivial: config.SkipTrivial,
		Workers:     lo.Ternary(*workersPtr > 0, *workersPtr, config.Workers),
	}

	request, err := sat.ParsePBRequest(os.Stdin)
	if err != nil {
		log.Exitf("cannot parse request: %v", err)
	}

	clauses, nextFreeVar, err := request.Encode(context.Background(), strategy, opts)
	if err != nil {
		log.Exitf("cannot encode request: %v", err)
	}
	log.V(1).Infof("%v clauses, next free variable %v", len(clauses), nextFreeVar)

	if err := sat.FormatClauses(os.Stdout, clauses); err != nil {
		log.Exitf("cannot write clauses: %v", err)
	}
}
