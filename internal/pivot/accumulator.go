package pivot

import (
	"fmt"
	"math"
	"sort"

	"github.com/paveg/crosstab/internal/dataset"
)

// accumulator maintains one aggregation's running state for one pivot cell.
// The scan feeds only non-null contributions; a cell that never received a
// contribution reports the null scalar, not zero. Every merge is associative
// and commutative so parallel partitions combine in any order.
type accumulator interface {
	update(s Scalar, rowIndex int)
	merge(other accumulator)
	result() Scalar
}

// newAccumulator builds the accumulator for one aggregation over a column of
// the given kind. Applicability is checked during request validation.
func newAccumulator(agg AggregationType, kind dataset.Kind) accumulator {
	switch agg {
	case AggSum:
		return &sumAcc{integer: kind == dataset.KindInt64}
	case AggMean:
		return &meanAcc{}
	case AggCount:
		return &countAcc{}
	case AggMin:
		return &extremumAcc{min: true}
	case AggMax:
		return &extremumAcc{}
	case AggFirst:
		return &positionalAcc{first: true}
	case AggLast:
		return &positionalAcc{}
	case AggMedian:
		return &medianAcc{}
	case AggStd:
		return &welfordAcc{std: true}
	case AggVar:
		return &welfordAcc{}
	default:
		panic(fmt.Sprintf("unknown aggregation type: %d", int(agg)))
	}
}

// sumAcc keeps integer sums in int64 so integer columns report integer totals.
type sumAcc struct {
	integer  bool
	intSum   int64
	floatSum float64
	n        int64
}

func (a *sumAcc) update(s Scalar, _ int) {
	a.n++
	if a.integer {
		a.intSum += s.Int64()
		return
	}
	f, _ := s.AsFloat64()
	a.floatSum += f
}

func (a *sumAcc) merge(other accumulator) {
	o := other.(*sumAcc)
	a.intSum += o.intSum
	a.floatSum += o.floatSum
	a.n += o.n
}

func (a *sumAcc) result() Scalar {
	if a.n == 0 {
		return NullScalar()
	}
	if a.integer {
		return Int64Scalar(a.intSum)
	}
	return Float64Scalar(a.floatSum)
}

type countAcc struct {
	n int64
}

func (a *countAcc) update(_ Scalar, _ int) {
	a.n++
}

func (a *countAcc) merge(other accumulator) {
	a.n += other.(*countAcc).n
}

func (a *countAcc) result() Scalar {
	if a.n == 0 {
		return NullScalar()
	}
	return Int64Scalar(a.n)
}

// meanAcc merges by combining sums and counts, never pre-divided means.
type meanAcc struct {
	sum float64
	n   int64
}

func (a *meanAcc) update(s Scalar, _ int) {
	f, _ := s.AsFloat64()
	a.sum += f
	a.n++
}

func (a *meanAcc) merge(other accumulator) {
	o := other.(*meanAcc)
	a.sum += o.sum
	a.n += o.n
}

func (a *meanAcc) result() Scalar {
	if a.n == 0 {
		return NullScalar()
	}
	return Float64Scalar(a.sum / float64(a.n))
}

// extremumAcc tracks the running minimum or maximum in the column's native type.
type extremumAcc struct {
	min  bool
	best Scalar
	n    int64
}

func (a *extremumAcc) update(s Scalar, _ int) {
	if a.n == 0 || a.better(s) {
		a.best = s
	}
	a.n++
}

func (a *extremumAcc) better(s Scalar) bool {
	if a.min {
		return s.Compare(a.best) < 0
	}
	return s.Compare(a.best) > 0
}

func (a *extremumAcc) merge(other accumulator) {
	o := other.(*extremumAcc)
	if o.n == 0 {
		return
	}
	if a.n == 0 || a.better(o.best) {
		a.best = o.best
	}
	a.n += o.n
}

func (a *extremumAcc) result() Scalar {
	if a.n == 0 {
		return NullScalar()
	}
	return a.best
}

// positionalAcc keeps the contribution at the earliest (First) or latest
// (Last) original row index, which makes the result independent of how the
// scan was partitioned.
type positionalAcc struct {
	first  bool
	val    Scalar
	rowIdx int
	n      int64
}

func (a *positionalAcc) update(s Scalar, rowIndex int) {
	if a.n == 0 || a.wins(rowIndex) {
		a.val = s
		a.rowIdx = rowIndex
	}
	a.n++
}

func (a *positionalAcc) wins(rowIndex int) bool {
	if a.first {
		return rowIndex < a.rowIdx
	}
	return rowIndex > a.rowIdx
}

func (a *positionalAcc) merge(other accumulator) {
	o := other.(*positionalAcc)
	if o.n == 0 {
		return
	}
	if a.n == 0 || a.wins(o.rowIdx) {
		a.val = o.val
		a.rowIdx = o.rowIdx
	}
	a.n += o.n
}

func (a *positionalAcc) result() Scalar {
	if a.n == 0 {
		return NullScalar()
	}
	return a.val
}

// medianAcc retains every contributing value; an exact median cannot be
// merged from partial medians.
type medianAcc struct {
	values []float64
}

func (a *medianAcc) update(s Scalar, _ int) {
	f, _ := s.AsFloat64()
	a.values = append(a.values, f)
}

func (a *medianAcc) merge(other accumulator) {
	a.values = append(a.values, other.(*medianAcc).values...)
}

func (a *medianAcc) result() Scalar {
	n := len(a.values)
	if n == 0 {
		return NullScalar()
	}
	sort.Float64s(a.values)
	mid := n / 2
	if n%2 == 1 {
		return Float64Scalar(a.values[mid])
	}
	return Float64Scalar((a.values[mid-1] + a.values[mid]) / 2)
}

// welfordAcc computes variance via Welford's incremental method and combines
// partitions with the parallel variance formula, avoiding the cancellation
// error of a naive sum-of-squares approach. Sample statistics: divide by n-1,
// so a single contribution reports null.
type welfordAcc struct {
	std  bool
	n    int64
	mean float64
	m2   float64
}

func (a *welfordAcc) update(s Scalar, _ int) {
	f, _ := s.AsFloat64()
	a.n++
	delta := f - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (f - a.mean)
}

func (a *welfordAcc) merge(other accumulator) {
	o := other.(*welfordAcc)
	if o.n == 0 {
		return
	}
	if a.n == 0 {
		a.n, a.mean, a.m2 = o.n, o.mean, o.m2
		return
	}
	na := float64(a.n)
	nb := float64(o.n)
	total := na + nb
	delta := o.mean - a.mean
	a.m2 += o.m2 + delta*delta*na*nb/total
	a.mean = (na*a.mean + nb*o.mean) / total
	a.n += o.n
}

func (a *welfordAcc) result() Scalar {
	if a.n < 2 {
		return NullScalar()
	}
	m2 := a.m2
	if m2 < 0 {
		m2 = 0 // rounding can push m2 slightly below zero
	}
	variance := m2 / float64(a.n-1)
	if a.std {
		return Float64Scalar(math.Sqrt(variance))
	}
	return Float64Scalar(variance)
}
