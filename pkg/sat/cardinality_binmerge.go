package sat

import "math/bits"

// Binary merge encoding. Weights are split into bit levels: level b holds the literals whose
// weight has bit b set. The literals of a level are sorted into a unary counter by a tree of
// merges, then merged with the carry of the previous level (every second output of that level's
// counter). The parity of each level counter is bit b of the weighted sum, and the sum is
// compared bitwise with the bound. Merges are full equivalences, so the parity bits are exact.

type binaryMerge struct {
	allocator *Allocator
	clauses   [][]int64
}

func encodeBinaryMerge(literals []WeightedLiteral, bound int, allocator *Allocator) [][]int64 {
	if len(literals) == 0 {
		return nil
	}

	encoder := &binaryMerge{allocator: allocator, clauses: make([][]int64, 0)}
	levels := bits.Len(uint(bound))

	parities := make([]int64, levels) // 0 = the level count is always even
	var counter []int64
	for b := 0; b < levels; b++ {
		level := make([]int64, 0)
		for _, literal := range literals {
			if literal.Weight>>b&1 == 1 {
				level = append(level, literal.Var)
			}
		}
		counter = encoder.merge(encoder.sort(level), carry(counter))
		parities[b] = encoder.parity(counter)
	}

	//** The sum must fit in the bit length of the bound
	if len(counter) > 1 {
		encoder.add(-counter[1])
	}

	//** Lexicographic comparison with the bound
	for b := 0; b < levels; b++ {
		if bound>>b&1 == 1 || parities[b] == 0 {
			continue
		}
		clause := []int64{-parities[b]}
		satisfied := false
		for higher := b + 1; higher < levels; higher++ {
			if bound>>higher&1 == 0 {
				continue
			}
			if parities[higher] == 0 {
				satisfied = true
				break
			}
			clause = append(clause, -parities[higher])
		}
		if !satisfied {
			encoder.add(clause...)
		}
	}

	return encoder.clauses
}

func binaryMergeAuxiliaries(literals []WeightedLiteral, bound int) int {
	if len(literals) == 0 {
		return 0
	}

	auxiliaries := 0
	counter := 0
	for b := 0; b < bits.Len(uint(bound)); b++ {
		level := 0
		for _, literal := range literals {
			if literal.Weight>>b&1 == 1 {
				level++
			}
		}
		auxiliaries += sortAuxiliaries(level) + mergeAuxiliaries(level, counter/2)
		counter = level + counter/2
		if counter > 1 {
			auxiliaries++ // parity
		}
	}
	return auxiliaries
}

func sortAuxiliaries(length int) int {
	if length < 2 {
		return 0
	}
	half := length / 2
	return sortAuxiliaries(half) + sortAuxiliaries(length-half) + mergeAuxiliaries(half, length-half)
}

func mergeAuxiliaries(left, right int) int {
	if left == 0 || right == 0 {
		return 0
	}
	return left + right
}

// carry keeps the outputs of a unary counter that stand for "count >= 2k"
func carry(counter []int64) []int64 {
	carried := make([]int64, 0, len(counter)/2)
	for k := 1; k < len(counter); k += 2 {
		carried = append(carried, counter[k])
	}
	return carried
}

func (encoder *binaryMerge) add(literals ...int64) {
	encoder.clauses = append(encoder.clauses, literals)
}

func (encoder *binaryMerge) sort(literals []int64) []int64 {
	if len(literals) < 2 {
		return literals
	}
	half := len(literals) / 2
	return encoder.merge(encoder.sort(literals[:half]), encoder.sort(literals[half:]))
}

// merge returns a unary counter whose output k is true iff at least k+1 inputs of a and b are true
func (encoder *binaryMerge) merge(a, b []int64) []int64 {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	outputs := encoder.allocator.Allocate(len(a) + len(b))
	for i := 0; i <= len(a); i++ {
		for j := 0; j <= len(b); j++ {
			//** a >= i and b >= j implies outputs >= i+j
			if i+j > 0 {
				clause := make([]int64, 0, 3)
				if i > 0 {
					clause = append(clause, -a[i-1])
				}
				if j > 0 {
					clause = append(clause, -b[j-1])
				}
				encoder.add(append(clause, outputs[i+j-1])...)
			}
			//** a < i+1 and b < j+1 implies outputs < i+j+1
			if i+j < len(outputs) {
				clause := make([]int64, 0, 3)
				if i < len(a) {
					clause = append(clause, a[i])
				}
				if j < len(b) {
					clause = append(clause, b[j])
				}
				encoder.add(append(clause, -outputs[i+j])...)
			}
		}
	}
	return outputs
}

// parity returns a variable equivalent to "the counter holds an odd count" (0 when always even)
func (encoder *binaryMerge) parity(counter []int64) int64 {
	switch len(counter) {
	case 0:
		return 0
	case 1:
		return counter[0]
	}

	at := func(k int) (int64, bool) {
		if k < len(counter) {
			return counter[k], true
		}
		return 0, false
	}

	r := encoder.allocator.Next()
	//** count = k+1 for an even k implies odd
	for k := 0; k < len(counter); k += 2 {
		clause := []int64{-counter[k], r}
		if next, ok := at(k + 1); ok {
			clause = append(clause, next)
		}
		encoder.add(clause...)
	}
	//** Odd implies count >= 1 and count is not any even k >= 2
	encoder.add(counter[0], -r)
	for k := 2; k <= len(counter); k += 2 {
		clause := []int64{-counter[k-1], -r}
		if next, ok := at(k); ok {
			clause = append(clause, next)
		}
		encoder.add(clause...)
	}
	return r
}
