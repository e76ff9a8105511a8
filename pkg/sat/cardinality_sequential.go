package sat

// Weighted sequential counter. Register s(i, j) holds "the weights of the first i literals sum to
// at least j", for i in [1, n-1] and j in [1, bound]. Every literal weighs at most bound.

func sequentialAuxiliaries(literals []WeightedLiteral, bound int) int {
	if len(literals) < 2 {
		return 0
	}
	return (len(literals) - 1) * bound
}

func encodeSequential(literals []WeightedLiteral, bound int, allocator *Allocator) [][]int64 {
	n := len(literals)
	if n < 2 {
		return nil
	}

	registers := make([][]int64, n-1)
	for i := range registers {
		registers[i] = allocator.Allocate(bound)
	}
	// s(i, j) with 1-based i and j
	s := func(i, j int) int64 {
		return registers[i-1][j-1]
	}

	clauses := make([][]int64, 0)
	for i := 1; i <= n; i++ {
		x := literals[i-1].Var
		w := literals[i-1].Weight

		if i < n {
			//** x_i alone reaches every j up to its weight
			for j := 1; j <= w; j++ {
				clauses = append(clauses, []int64{-x, s(i, j)})
			}
			if i > 1 {
				//** Prefix sums never decrease
				for j := 1; j <= bound; j++ {
					clauses = append(clauses, []int64{-s(i-1, j), s(i, j)})
				}
				//** x_i shifts the previous prefix by its weight
				for j := 1; j <= bound-w; j++ {
					clauses = append(clauses, []int64{-x, -s(i-1, j), s(i, j+w)})
				}
			}
		}

		//** x_i must not push the previous prefix over the bound
		if i > 1 {
			clauses = append(clauses, []int64{-x, -s(i-1, bound+1-w)})
		}
	}

	return clauses
}
