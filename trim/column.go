package trim

import (
	"math"

	"github.com/grailbio/msatrim/msa"
)

// Span is a half-open column range [Start, End).
type Span struct {
	Start, End int
}

// Len returns the number of columns in s.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Shift returns s moved right by off columns.
func (s Span) Shift(off int) Span {
	return Span{s.Start + off, s.End + off}
}

// MajorityCount returns the number of rows that make up a majority for the
// given proportion: proportion*rows rounded half away from zero.
func MajorityCount(proportion float64, rows int) int {
	return int(math.Round(proportion * float64(rows)))
}

// ColumnQuality scores each column of a.  A column is bad if it has more
// than MajorityCount(proportion) gaps.  Otherwise it is good iff its most
// frequent non-gap character (case folded) occurs at least
// MajorityCount(proportion) times.
func ColumnQuality(a *msa.Alignment, proportion float64) []bool {
	var (
		t        tally
		col      []byte
		majority = MajorityCount(proportion, a.NumRows())
		good     = make([]bool, a.Width())
	)
	for i := range good {
		col = a.Column(i, col)
		_, count, gaps := t.count(col)
		good[i] = gaps <= majority && count >= majority
	}
	return good
}

// ScanColumns finds the stable block region of a.  Column scores from
// ColumnQuality are smoothed with an opts.WindowSize-wide moving average,
// and the returned span runs from the first to the last column whose average
// is at least opts.Threshold, inclusive.  ok is false when no column
// qualifies.
func ScanColumns(a *msa.Alignment, opts *Opts) (span Span, ok bool) {
	avg := movingAverage(ColumnQuality(a, opts.Proportion), opts.WindowSize, opts.Edge)
	first, last := -1, -1
	for i, v := range avg {
		if v >= opts.Threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return Span{}, false
	}
	return Span{first, last + 1}, true
}
