package metrics

import (
	"math"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// ApplySkew stamps the per-strike OI skew and the smoothed IV-skew-slope
// series onto a freshly built row set. It runs once, at normalization time,
// before rows are handed out.
func ApplySkew(rows []contracts.StrikeRow) {
	for i := range rows {
		rows[i].OISkew = oiSkew(rows[i].Put.OI, rows[i].Call.OI)
	}
	applyIVSkewSlope(rows)
}

// oiSkew is (put OI - call OI)/(put OI + call OI + 1). The +1 avoids a zero
// denominator and bounds the output to (-1, 1).
func oiSkew(putOI, callOI int64) float64 {
	return float64(putOI-callOI) / float64(putOI+callOI+1)
}

// applyIVSkewSlope computes a trailing 3-row rolling mean of |put IV - call IV|
// over the rows where both sides quote a positive IV, then reindexes the
// series back onto the full row set with 0 for excluded rows. Fewer than 3
// usable rows leaves the whole series at 0.
func applyIVSkewSlope(rows []contracts.StrikeRow) {
	valid := make([]int, 0, len(rows))
	for i := range rows {
		if rows[i].Call.IV > 0 && rows[i].Put.IV > 0 {
			valid = append(valid, i)
		}
	}

	if len(valid) < 3 {
		return
	}

	diffs := make([]float64, len(valid))
	for j, idx := range valid {
		diffs[j] = math.Abs(rows[idx].Put.IV - rows[idx].Call.IV)
	}

	// window 3, minimum periods 1: position j averages the last min(j+1, 3)
	// diffs of the valid subset
	for j, idx := range valid {
		start := j - 2
		if start < 0 {
			start = 0
		}

		var sum float64
		for k := start; k <= j; k++ {
			sum += diffs[k]
		}
		rows[idx].IVSkewSlope = sum / float64(j-start+1)
	}
}
