package planner

import "github.com/EMinsight/heffte/box"

// chooseAxes picks the FFT axis sequence (a0,a1,a2), spec.md §4.2 step
// 1. If r2cAxis is non-negative, it is forced to a0 and the remaining
// two axes are taken in ascending index order. Otherwise a0 is the
// axis along which pIn is already pencil-like (ascending tie-break);
// if none qualifies, a0 defaults to axis 0. The remaining axes are
// ordered by ascending index, which is also the tie-break spec.md
// mandates for equal redistribution volume.
func chooseAxes(pIn box.Partition, r2cAxis int) [3]int {
	if r2cAxis >= 0 {
		rest := remainingAxes(r2cAxis)
		return [3]int{r2cAxis, rest[0], rest[1]}
	}
	a0 := 0
	for axis := 0; axis < 3; axis++ {
		if pIn.AllPencils(axis) {
			a0 = axis
			break
		}
	}
	rest := remainingAxes(a0)
	return [3]int{a0, rest[0], rest[1]}
}

func remainingAxes(exclude int) [2]int {
	var rest [2]int
	i := 0
	for axis := 0; axis < 3; axis++ {
		if axis == exclude {
			continue
		}
		rest[i] = axis
		i++
	}
	return rest
}

// gridFactors splits n ranks into a p x q grid as square as possible,
// i.e. minimising |p-q| subject to p*q == n, p <= q. Used to lay out
// a pencil partition's two non-pencil axes across the rank count.
func gridFactors(n int) (p, q int) {
	if n <= 0 {
		return 1, 1
	}
	best := 1
	for d := 1; d*d <= n; d++ {
		if n%d == 0 {
			best = d
		}
	}
	return best, n / best
}

// splitExtent divides an extent of size n into k balanced, contiguous
// chunks (each either ceil(n/k) or floor(n/k) long), returning each
// chunk's [lo,hi] inclusive bounds. Chunks past the point where the
// extent runs out are empty (lo > hi), which is valid: a box that
// ends up empty after a non-square rank grid split is permitted.
func splitExtent(lo, hi, k int) [][2]int {
	n := hi - lo + 1
	chunks := make([][2]int, k)
	base := n / k
	rem := n % k
	cursor := lo
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		if size <= 0 {
			chunks[i] = [2]int{cursor, cursor - 1} // empty
			continue
		}
		chunks[i] = [2]int{cursor, cursor + size - 1}
		cursor += size
	}
	return chunks
}
