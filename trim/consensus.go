package trim

import "github.com/grailbio/msatrim/msa"

// DefaultCallThreshold is the fraction of rows that must agree on a base
// before the consensus calls it.
const DefaultCallThreshold = 0.7

// tally counts the characters of one column.  It is reused across columns
// to avoid reallocating the count table.
type tally struct {
	counts [256]int
}

// count returns the most frequent non-gap character of col, folded to upper
// case, with its count, and the number of gaps in col.  Ties go to the
// character that appears first in col, so the result depends only on row
// order.  best is GapChar when col contains only gaps.
func (t *tally) count(col []byte) (best byte, bestCount, gaps int) {
	for _, c := range col {
		if c == msa.GapChar {
			gaps++
			continue
		}
		t.counts[msa.UpperBase(c)]++
	}
	best = msa.GapChar
	for _, c := range col {
		if c == msa.GapChar {
			continue
		}
		c = msa.UpperBase(c)
		if n := t.counts[c]; n > bestCount {
			best, bestCount = c, n
		}
	}
	for _, c := range col {
		t.counts[msa.UpperBase(c)] = 0
	}
	return best, bestCount, gaps
}

// Consensus returns the majority-rule consensus of a, one character per
// column.  A column's call is its most frequent non-gap character (case
// folded) when that character makes up at least callThreshold of all rows,
// gaps included; otherwise the column gets GapChar.  The result is fully
// determined by the content and row order of a.
func Consensus(a *msa.Alignment, callThreshold float64) []byte {
	var (
		t    tally
		col  []byte
		cons = make([]byte, a.Width())
		n    = float64(a.NumRows())
	)
	for i := range cons {
		col = a.Column(i, col)
		best, count, _ := t.count(col)
		if count > 0 && float64(count)/n >= callThreshold {
			cons[i] = best
		} else {
			cons[i] = msa.GapChar
		}
	}
	return cons
}
