package sat

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Strategy selects the clause-level encoding of a weighted at-most constraint
type Strategy int

const (
	Sequential Strategy = iota
	BinaryMerge
)

var strategyNames = map[Strategy]string{
	Sequential:  "sequential",
	BinaryMerge: "binmerge",
}

func (strategy Strategy) String() string {
	if name, ok := strategyNames[strategy]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(strategy))
}

func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for strategy, strategyName := range strategyNames {
		if strategyName == name {
			return strategy, nil
		}
	}
	if name == "binary-merge" || name == "binarymerge" {
		return BinaryMerge, nil
	}
	return 0, fmt.Errorf("%v is not a valid encoding", name)
}

// WeightedLiteral is a positive indicator variable together with its weight
type WeightedLiteral struct {
	Var    int64
	Weight int
}

type Options struct {
	// SkipTrivial omits the encoding when the total weight already fits the bound
	SkipTrivial bool
	// Workers limits the number of machines encoded at once by EncodeMachines (<= 0 means unlimited)
	Workers int
}

// EncodeAtMost returns clauses equivalent to "sum of the weights of the true literals <= bound".
// Every auxiliary variable is taken from allocator, exactly AuxiliaryVariables of them.
func EncodeAtMost(strategy Strategy, literals []WeightedLiteral, bound int, allocator *Allocator, opts Options) [][]int64 {
	units, kept, skip := prepare(literals, bound, opts)
	if skip {
		return nil
	}

	switch strategy {
	case Sequential:
		return append(units, encodeSequential(kept, bound, allocator)...)
	case BinaryMerge:
		return append(units, encodeBinaryMerge(kept, bound, allocator)...)
	default:
		panic(fmt.Sprintf("unknown encoding strategy: %v", strategy))
	}
}

// AuxiliaryVariables returns the number of ids EncodeAtMost allocates for the same arguments
func AuxiliaryVariables(strategy Strategy, literals []WeightedLiteral, bound int, opts Options) int {
	_, kept, skip := prepare(literals, bound, opts)
	if skip {
		return 0
	}

	switch strategy {
	case Sequential:
		return sequentialAuxiliaries(kept, bound)
	case BinaryMerge:
		return binaryMergeAuxiliaries(kept, bound)
	default:
		panic(fmt.Sprintf("unknown encoding strategy: %v", strategy))
	}
}

// EncodeMachines encodes one at-most constraint per literal set. Every set gets its own block of
// ids reserved up front so the sets are encoded concurrently; the clauses are returned in set order.
func EncodeMachines(ctx context.Context, strategy Strategy, literalSets [][]WeightedLiteral, bound int, allocator *Allocator, opts Options) ([][]int64, error) {
	blocks := lo.Map(literalSets, func(literals []WeightedLiteral, _ int) *Allocator {
		return allocator.Reserve(AuxiliaryVariables(strategy, literals, bound, opts))
	})

	results := make([][][]int64, len(literalSets))
	group, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		group.SetLimit(opts.Workers)
	}
	for machine, literals := range literalSets {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[machine] = EncodeAtMost(strategy, literals, bound, blocks[machine], opts)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("cannot encode machine constraints: %w", err)
	}

	return lo.Flatten(results), nil
}

// prepare drops absent literals, turns every literal heavier than the bound into a negative unit
// and reports whether the whole constraint can be skipped
func prepare(literals []WeightedLiteral, bound int, opts Options) ([][]int64, []WeightedLiteral, bool) {
	if bound < 0 {
		panic(fmt.Sprintf("bound must be non-negative: %d", bound))
	}

	literals = lo.Filter(literals, func(literal WeightedLiteral, _ int) bool {
		if literal.Weight < 0 {
			panic(fmt.Sprintf("weight of variable %d is negative: %d", literal.Var, literal.Weight))
		}
		return literal.Var != 0 && literal.Weight > 0
	})
	if len(literals) == 0 {
		return nil, nil, true
	}

	total := lo.SumBy(literals, func(literal WeightedLiteral) int { return literal.Weight })
	if opts.SkipTrivial && total <= bound {
		return nil, nil, true
	}

	units := make([][]int64, 0)
	kept := make([]WeightedLiteral, 0, len(literals))
	for _, literal := range literals {
		if literal.Weight > bound {
			units = append(units, []int64{-literal.Var})
		} else {
			kept = append(kept, literal)
		}
	}
	return units, kept, false
}
