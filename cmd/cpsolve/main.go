package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/limaJavier/makespan/pkg/cp"
)

// Reads a model request from the Standard Input, optimises it in-process and writes the response
// to the Standard Output
func main() {
	flag.Parse()
	defer log.Flush()

	request, err := cp.ParseRequest(os.Stdin)
	if err != nil {
		log.Exitf("cannot parse request: %v", err)
	}

	result, err := cp.NewGophersatSolver().Solve(context.Background(), request.Model, request.TimeLimit)
	if err != nil {
		log.Exitf("an error occurred while solving: %v", err)
	}
	log.V(1).Infof("model over [%v, %v] is %v", request.Model.Lower, request.Model.Upper, result.Status)

	fmt.Print(result.String())
}
