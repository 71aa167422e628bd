package trim

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// EdgePolicy selects how the moving average treats windows that extend
// past either end of the signal.
type EdgePolicy int

const (
	// EdgeZeroPad treats out-of-range samples as zero and always divides by
	// the full window size.
	EdgeZeroPad EdgePolicy = iota
	// EdgeInBounds divides by the number of in-range samples.
	EdgeInBounds
)

var edgePolicyNames = [...]string{"zeropad", "inbounds"}

// String implements fmt.Stringer.
func (e EdgePolicy) String() string {
	if e < 0 || int(e) >= len(edgePolicyNames) {
		return fmt.Sprintf("EdgePolicy(%d)", int(e))
	}
	return edgePolicyNames[e]
}

// ParseEdgePolicy parses "zeropad" or "inbounds".
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	for i, name := range edgePolicyNames {
		if s == name {
			return EdgePolicy(i), nil
		}
	}
	return 0, errors.E(fmt.Sprintf("trim.ParseEdgePolicy: unknown edge policy %q", s))
}

// windowBounds returns how far a w-wide window centered on an index reaches
// to the left (lo) and to the right (hi).  For even w the extra sample is on
// the left, matching numpy.convolve(..., 'same').
func windowBounds(w int) (lo, hi int) {
	lo = w / 2
	return lo, w - 1 - lo
}

// movingAverage returns the centered w-wide moving average of signal, with
// true counting as 1.  The result has the same length as signal.
func movingAverage(signal []bool, w int, edge EdgePolicy) []float64 {
	n := len(signal)
	prefix := make([]int, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i]
		if v {
			prefix[i+1]++
		}
	}
	lo, hi := windowBounds(w)
	avg := make([]float64, n)
	for i := range avg {
		start, limit := i-lo, i+hi+1
		if start < 0 {
			start = 0
		}
		if limit > n {
			limit = n
		}
		div := w
		if edge == EdgeInBounds {
			div = limit - start
		}
		avg[i] = float64(prefix[limit]-prefix[start]) / float64(div)
	}
	return avg
}
